package auth

import (
	"context"
	"time"
)

// UserRecord is an identity as stored by the credential store. Records are
// created and mutated by user management elsewhere; this core only reads
// them. The password hash never leaves this package.
type UserRecord struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Active       bool   `json:"active"`
	// Service marks non-human accounts, which qualify for the longest
	// token lifetime class when they request an extended session.
	Service bool `json:"service"`
}

// Credentials is the transient username/password pair presented at login.
// It is never persisted and never logged.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identity is the authenticated caller derived from a verified token. It
// carries only what the token proves: the username. Roles are resolved
// fresh per request by pkg/rbac.
//
// An Identity must only ever be constructed by TokenVerifier.Verify.
type Identity struct {
	Username string `json:"username"`
}

// UserStore is the external credential store. FindByUsername returns
// ErrUserNotFound when no record matches.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
}

// Blacklist is the external revocation cache. Put records a token as
// revoked for at least ttl; Get reports whether the exact token string has
// been revoked. Implementations must be safe for concurrent use.
type Blacklist interface {
	Put(ctx context.Context, token, value string, ttl time.Duration) error
	Get(ctx context.Context, token string) (value string, found bool, err error)
}
