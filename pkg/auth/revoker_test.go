package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRevokerFixture(t *testing.T) (*TokenIssuer, *TokenVerifier, *Revoker, *fakeBlacklist) {
	t.Helper()
	key := testKeyPair(t)
	blacklist := newFakeBlacklist()
	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, blacklist, time.Second)
	revoker := NewRevoker(&key.PublicKey, nil, blacklist, 48*time.Hour, time.Second)
	return issuer, verifier, revoker, blacklist
}

func TestRevoker_RevokeThenVerifyFails(t *testing.T) {
	issuer, verifier, revoker, _ := newRevokerFixture(t)

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	// Usable before revocation, Unauthorized forever after, regardless of
	// the time left to expiry.
	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	require.NoError(t, err)

	require.NoError(t, revoker.Revoke(context.Background(), "Bearer "+token))

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevoker_PrefixVariantsRevokeTheSameToken(t *testing.T) {
	issuer, verifier, revoker, _ := newRevokerFixture(t)

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	// Revoked via one prefix variant, rejected via the other.
	require.NoError(t, revoker.Revoke(context.Background(), "bearer "+token))

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRevoker_Idempotent(t *testing.T) {
	issuer, _, revoker, _ := newRevokerFixture(t)

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	assert.NoError(t, revoker.Revoke(context.Background(), "Bearer "+token))
	assert.NoError(t, revoker.Revoke(context.Background(), "Bearer "+token))
}

func TestRevoker_EntryTTLTracksTokenExpiry(t *testing.T) {
	issuer, _, revoker, blacklist := newRevokerFixture(t)

	token, expiresAt, err := issuer.Issue("bob", true, false)
	require.NoError(t, err)

	require.NoError(t, revoker.Revoke(context.Background(), "Bearer "+token))

	ttl := blacklist.ttls[token]
	remaining := time.Until(expiresAt)
	assert.InDelta(t, remaining.Seconds(), ttl.Seconds(), 5,
		"entry TTL should match the token's remaining life")
}

func TestRevoker_UnparseableTokenFallsBackToDefaultTTL(t *testing.T) {
	_, _, revoker, blacklist := newRevokerFixture(t)

	// The string cannot be parsed as one of our tokens; it still gets
	// blacklisted, with the configured default TTL.
	require.NoError(t, revoker.Revoke(context.Background(), "Bearer not-a-jwt"))
	assert.Equal(t, 48*time.Hour, blacklist.ttls["not-a-jwt"])
}

func TestRevoker_UnconfirmedWriteIsBadRequest(t *testing.T) {
	issuer, _, revoker, blacklist := newRevokerFixture(t)
	blacklist.dropWrites = true

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	err = revoker.Revoke(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrRevocationUnconfirmed)
}

func TestRevoker_CacheOutageIsUnavailable(t *testing.T) {
	issuer, _, revoker, blacklist := newRevokerFixture(t)
	blacklist.failPut = errors.New("connection refused")

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	err = revoker.Revoke(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrRevocationUnconfirmed)
}

func TestRevoker_MissingHeaderIsUnauthorized(t *testing.T) {
	_, _, revoker, _ := newRevokerFixture(t)

	err := revoker.Revoke(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
