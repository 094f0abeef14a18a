package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 150, "codes should not repeat heavily")
}

func TestMatchOTP(t *testing.T) {
	assert.True(t, MatchOTP("123456", "123456"))
	assert.False(t, MatchOTP("123456", "123457"))
	assert.False(t, MatchOTP("123456", "12345"))
	assert.False(t, MatchOTP("123456", ""))
}
