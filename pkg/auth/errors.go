package auth

import "errors"

// Error kinds surfaced by the access-control core. Callers map these to
// transport status codes; nothing in this package retries. ErrUnavailable
// is the only kind a client should retry.
var (
	// ErrUnauthorized covers bad credentials, inactive accounts, and
	// missing, malformed, expired, or revoked tokens. The boundary must
	// present a single generic message for all of these so that valid
	// usernames cannot be enumerated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the identity is known but lacks a required role
	// in the requested tenant scope.
	ErrForbidden = errors.New("forbidden")

	// ErrRevocationUnconfirmed means a logout wrote a blacklist entry but
	// could not read it back. The token must still be treated as live.
	ErrRevocationUnconfirmed = errors.New("revocation not confirmed")

	// ErrUnavailable means the user store or blacklist cache was
	// unreachable or timed out.
	ErrUnavailable = errors.New("dependency unavailable")
)

// ErrUserNotFound is returned by UserStore implementations when no record
// matches the username. The credential validator folds it into
// ErrUnauthorized before it reaches any caller.
var ErrUserNotFound = errors.New("user not found")

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsForbidden reports whether err is an authorization denial.
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnavailable reports whether err is a retryable dependency failure.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsRevocationUnconfirmed reports whether err is an unconfirmed logout.
func IsRevocationUnconfirmed(err error) bool { return errors.Is(err, ErrRevocationUnconfirmed) }
