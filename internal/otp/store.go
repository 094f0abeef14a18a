package otp

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and IncrementAttempts when no pending
// code exists for the email. It is an expected outcome (expired key,
// replay after use), not a storage failure.
var ErrNotFound = errors.New("otp: no pending code")

// Record is the single pending reset code for an email. A new issuance
// replaces the previous record wholesale.
type Record struct {
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// Store holds at most one Record per normalized email.
type Store interface {
	// Put replaces any existing record for the email.
	Put(ctx context.Context, email string, rec Record) error
	// Get returns ErrNotFound when no record exists.
	Get(ctx context.Context, email string) (Record, error)
	// Delete is idempotent; removing an absent key is not an error.
	Delete(ctx context.Context, email string) error
	// IncrementAttempts bumps the failed-guess counter without
	// extending the record's lifetime.
	IncrementAttempts(ctx context.Context, email string) error
}
