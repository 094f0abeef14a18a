package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
)

// GenerateOTP returns a 6-digit numeric code drawn from crypto/rand.
func GenerateOTP() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := int(buf[0])<<16 | int(buf[1])<<8 | int(buf[2])
	code = code % 1000000
	return fmt.Sprintf("%06d", code), nil
}

// MatchOTP compares a submitted code against the stored one without
// leaking the position of the first differing digit.
func MatchOTP(stored string, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
