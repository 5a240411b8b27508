package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RevokedSentinel is the value stored against a blacklisted token.
const RevokedSentinel = "revoked"

// minRevocationTTL is the floor for a blacklist entry so that an entry for
// a token at the edge of expiry still outlives any clock skew.
const minRevocationTTL = time.Minute

// Revoker blacklists tokens at logout. The entry's TTL is the token's own
// remaining lifetime, so an entry can never expire before the token it
// blocks; the configured default TTL is only a fallback for tokens whose
// expiry cannot be recovered. Every write is confirmed with a read before
// success is reported.
type Revoker struct {
	key        *rsa.PublicKey
	prefixes   []string
	blacklist  Blacklist
	defaultTTL time.Duration
	timeout    time.Duration
	now        func() time.Time
}

// NewRevoker returns a Revoker. prefixes must be the same table the
// verifier uses; nil selects DefaultSchemePrefixes. defaultTTL should be
// at least the longest token lifetime class.
func NewRevoker(key *rsa.PublicKey, prefixes []string, blacklist Blacklist, defaultTTL, timeout time.Duration) *Revoker {
	if len(prefixes) == 0 {
		prefixes = DefaultSchemePrefixes
	}
	return &Revoker{
		key:        key,
		prefixes:   prefixes,
		blacklist:  blacklist,
		defaultTTL: defaultTTL,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Revoke blacklists the token carried in a raw Authorization header value.
// It is idempotent: revoking an already-revoked token succeeds again. A
// cache outage returns ErrUnavailable; a write that cannot be read back
// returns ErrRevocationUnconfirmed, and the caller must not report the
// token as logged out.
func (r *Revoker) Revoke(ctx context.Context, header string) error {
	token, err := StripSchemePrefix(r.prefixes, header)
	if err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.blacklist.Put(ctx, token, RevokedSentinel, r.entryTTL(token)); err != nil {
		return fmt.Errorf("blacklist write: %v: %w", err, ErrUnavailable)
	}

	// Read-after-write confirmation: the cache may be eventually
	// consistent or misconfigured, and "logged out" must not be claimed
	// until the revocation is observable.
	_, found, err := r.blacklist.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("blacklist confirmation read: %v: %w", err, ErrUnavailable)
	}
	if !found {
		return fmt.Errorf("blacklist entry not visible after write: %w", ErrRevocationUnconfirmed)
	}
	return nil
}

// entryTTL derives the blacklist TTL from the token's own expiry. The
// signature is still checked so forged strings fall back to the default
// TTL rather than steering entry lifetimes.
func (r *Revoker) entryTTL(token string) time.Duration {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return r.defaultTTL
	}

	remaining := claims.ExpiresAt.Time.Sub(r.now())
	if remaining < minRevocationTTL {
		return minRevocationTTL
	}
	return remaining
}
