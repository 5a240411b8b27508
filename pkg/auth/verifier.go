package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates inbound bearer tokens: scheme prefix, signature,
// expiry, and the revocation blacklist, in that order. It holds only the
// public half of the key pair and can never mint tokens.
type TokenVerifier struct {
	key       *rsa.PublicKey
	issuer    string
	prefixes  []string
	blacklist Blacklist
	timeout   time.Duration
	now       func() time.Time
}

// NewTokenVerifier returns a verifier for tokens signed by the private
// counterpart of key. prefixes is the ordered Authorization prefix table;
// nil selects DefaultSchemePrefixes. timeout bounds the blacklist lookup.
func NewTokenVerifier(key *rsa.PublicKey, issuer string, prefixes []string, blacklist Blacklist, timeout time.Duration) *TokenVerifier {
	if len(prefixes) == 0 {
		prefixes = DefaultSchemePrefixes
	}
	return &TokenVerifier{
		key:       key,
		issuer:    issuer,
		prefixes:  prefixes,
		blacklist: blacklist,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Verify authenticates a raw Authorization header value and returns the
// caller's Identity. It fails with ErrUnauthorized on any missing,
// malformed, mis-signed, expired, or revoked token, and with
// ErrUnavailable when the blacklist cannot be reached. The blacklist read
// is the only I/O; verification has no side effects.
func (v *TokenVerifier) Verify(ctx context.Context, header string) (*Identity, error) {
	token, err := StripSchemePrefix(v.prefixes, header)
	if err != nil {
		return nil, err
	}

	claims, err := v.parse(token)
	if err != nil {
		return nil, err
	}

	if err := v.checkRevoked(ctx, token); err != nil {
		return nil, err
	}

	return &Identity{Username: claims.Subject}, nil
}

// parse checks signature and time claims and returns the embedded claims.
func (v *TokenVerifier) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token claims rejected: %w", ErrUnauthorized)
	}
	return claims, nil
}

// checkRevoked looks the exact token string up in the blacklist.
func (v *TokenVerifier) checkRevoked(ctx context.Context, token string) error {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	_, found, err := v.blacklist.Get(ctx, token)
	if err != nil {
		return fmt.Errorf("blacklist lookup: %v: %w", err, ErrUnavailable)
	}
	if found {
		return fmt.Errorf("token revoked: %w", ErrUnauthorized)
	}
	return nil
}
