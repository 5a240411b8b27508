package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LifetimePolicy holds the three token lifetime classes. Short is the
// baseline session; Extended applies to ordinary users asking for a long
// session; Service applies to service accounts asking for a long session.
// A valid policy satisfies 0 < Short < Extended < Service.
type LifetimePolicy struct {
	Short    time.Duration
	Extended time.Duration
	Service  time.Duration
}

// DefaultLifetimePolicy is the lifetime policy used when none is
// configured: 8h sessions, 7d extended sessions, 180d service tokens.
var DefaultLifetimePolicy = LifetimePolicy{
	Short:    8 * time.Hour,
	Extended: 7 * 24 * time.Hour,
	Service:  180 * 24 * time.Hour,
}

// Validate checks the ordering invariant between the classes.
func (p LifetimePolicy) Validate() error {
	if p.Short <= 0 {
		return fmt.Errorf("short lifetime must be positive, got %s", p.Short)
	}
	if p.Extended <= p.Short {
		return fmt.Errorf("extended lifetime %s must exceed short lifetime %s", p.Extended, p.Short)
	}
	if p.Service <= p.Extended {
		return fmt.Errorf("service lifetime %s must exceed extended lifetime %s", p.Service, p.Extended)
	}
	return nil
}

// Longest returns the longest-lived class. Blacklist default TTLs must be
// at least this long or a revoked token could outlive its entry.
func (p LifetimePolicy) Longest() time.Duration { return p.Service }

// Claims is the token payload: registered claims only, subject set to the
// username. Roles deliberately never appear here.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints signed bearer tokens. Issuance is a pure function of
// identity, policy, key material, and the clock; it has no side effects
// and writes nothing.
type TokenIssuer struct {
	key       *rsa.PrivateKey
	issuer    string
	lifetimes LifetimePolicy
	now       func() time.Time
}

// NewTokenIssuer returns an issuer signing with the given RSA private key.
func NewTokenIssuer(key *rsa.PrivateKey, issuer string, lifetimes LifetimePolicy) *TokenIssuer {
	return &TokenIssuer{
		key:       key,
		issuer:    issuer,
		lifetimes: lifetimes,
		now:       time.Now,
	}
}

// Lifetime selects the lifetime class for a session request. The class is
// fixed at issuance and never re-negotiated; revocation is the only way to
// shorten a token's effective life.
func (i *TokenIssuer) Lifetime(extended, service bool) time.Duration {
	switch {
	case !extended:
		return i.lifetimes.Short
	case service:
		return i.lifetimes.Service
	default:
		return i.lifetimes.Extended
	}
}

// Issue mints a token for username with the lifetime selected by
// (extended, service). It returns the signed token and its expiry.
func (i *TokenIssuer) Issue(username string, extended, service bool) (string, time.Time, error) {
	now := i.now().UTC()
	expiresAt := now.Add(i.Lifetime(extended, service))

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}
