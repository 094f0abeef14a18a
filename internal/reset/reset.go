package reset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"reflection-backend/internal/email"
	"reflection-backend/internal/otp"
	"reflection-backend/internal/utils"
)

const minPasswordLength = 8

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

// Credentials is the external auth collaborator. Passwords are never
// stored by the reset flow itself.
type Credentials interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	SetPassword(ctx context.Context, email string, newPassword string) error
}

// Service implements the password-reset code flow: issue a single-use
// 6-digit code per email, deliver it out of band, and exchange it for
// a password change.
type Service struct {
	store       otp.Store
	mailer      email.Mailer
	creds       Credentials
	validity    time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewService(store otp.Store, mailer email.Mailer, creds Credentials, validity time.Duration, maxAttempts int) *Service {
	return &Service{
		store:       store,
		mailer:      mailer,
		creds:       creds,
		validity:    validity,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Start issues a fresh code for the address and emails it. A pending
// code for the same address is overwritten, so a resend is just a
// re-issuance. When no account exists the call still reports success,
// so the endpoint cannot be used to probe which emails are registered.
func (s *Service) Start(ctx context.Context, address string) error {
	normalized, err := NormalizeEmail(address)
	if err != nil {
		return err
	}

	exists, err := s.creds.EmailExists(ctx, normalized)
	if err != nil {
		return internal("could not process request", err)
	}
	if !exists {
		return nil
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return internal("could not generate code", err)
	}

	issuedAt := s.now()
	rec := otp.Record{
		Code:      code,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.validity),
	}
	if err := s.store.Put(ctx, normalized, rec); err != nil {
		return internal("could not store code", err)
	}

	// The record is already persisted; a failed delivery self-heals on
	// resend because Put overwrites.
	body := fmt.Sprintf(
		"Your password reset code is: %s\nIt is valid for %d minutes. If you didn't request this, please ignore this email.",
		code, int(s.validity.Minutes()),
	)
	if err := s.mailer.Send(normalized, "Password Reset Code", body); err != nil {
		return internal("could not send email", err)
	}

	return nil
}

// Complete exchanges a valid code for a password change and consumes
// the code. Checks run in order: record exists, not expired, attempt
// budget left, code matches.
func (s *Service) Complete(ctx context.Context, address string, code string, newPassword string) error {
	normalized, err := NormalizeEmail(address)
	if err != nil {
		return err
	}
	if !codePattern.MatchString(code) {
		return invalidArgument("code must be 6 digits")
	}
	if len(newPassword) < minPasswordLength {
		return invalidArgument("password must be at least 8 characters")
	}

	rec, err := s.store.Get(ctx, normalized)
	if errors.Is(err, otp.ErrNotFound) {
		return notFound("no pending reset for this email")
	}
	if err != nil {
		return internal("could not read code", err)
	}

	if s.now().After(rec.ExpiresAt) {
		if err := s.store.Delete(ctx, normalized); err != nil {
			log.Printf("reset: stale code cleanup failed for %s: %v", normalized, err)
		}
		return deadlineExceeded("code expired, please request a new one")
	}

	if !utils.MatchOTP(rec.Code, code) {
		if rec.Attempts+1 >= s.maxAttempts {
			if err := s.store.Delete(ctx, normalized); err != nil {
				log.Printf("reset: attempt-cap cleanup failed for %s: %v", normalized, err)
			}
		} else if err := s.store.IncrementAttempts(ctx, normalized); err != nil && !errors.Is(err, otp.ErrNotFound) {
			log.Printf("reset: attempt count update failed for %s: %v", normalized, err)
		}
		return invalidArgument("invalid code")
	}

	if err := s.creds.SetPassword(ctx, normalized, newPassword); err != nil {
		// Record stays intact so the user can retry once the auth
		// backend recovers.
		return internal("could not update password", err)
	}

	if err := s.store.Delete(ctx, normalized); err != nil {
		log.Printf("reset: used code cleanup failed for %s: %v", normalized, err)
	}

	return nil
}

// NormalizeEmail trims and lowercases the address, which is the storage
// key and delivery target for the whole flow.
func NormalizeEmail(address string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized == "" || !emailPattern.MatchString(normalized) {
		return "", invalidArgument("invalid email address")
	}
	return normalized, nil
}
