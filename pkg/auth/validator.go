package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CredentialValidator checks a username/password pair against the user
// store. All failure modes fold into ErrUnauthorized at the boundary; the
// wrapped cause (unknown user, inactive account, wrong password) stays in
// the error chain for logging only.
type CredentialValidator struct {
	users   UserStore
	hasher  *PasswordHasher
	timeout time.Duration
}

// NewCredentialValidator returns a validator using the given store and
// hasher. timeout bounds the store lookup; <= 0 disables the bound.
func NewCredentialValidator(users UserStore, hasher *PasswordHasher, timeout time.Duration) *CredentialValidator {
	return &CredentialValidator{users: users, hasher: hasher, timeout: timeout}
}

// Validate returns the user record when the account exists, is active,
// and the password matches its stored hash. A store timeout or outage
// returns ErrUnavailable; every other failure returns ErrUnauthorized.
func (v *CredentialValidator) Validate(ctx context.Context, username, password string) (*UserRecord, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	user, err := v.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		// Keep latency comparable to the wrong-password path.
		v.hasher.compareDummy(password)
		return nil, fmt.Errorf("unknown user %q: %w", username, ErrUnauthorized)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return nil, fmt.Errorf("user store lookup: %w", ErrUnavailable)
	case err != nil:
		return nil, fmt.Errorf("user store lookup: %v: %w", err, ErrUnavailable)
	}

	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("password mismatch for %q: %w", username, ErrUnauthorized)
	}

	// Checked after the hash comparison so the two rejection paths are
	// not distinguishable by timing either.
	if !user.Active {
		return nil, fmt.Errorf("account %q inactive: %w", username, ErrUnauthorized)
	}

	return user, nil
}
