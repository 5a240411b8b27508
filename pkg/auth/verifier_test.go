package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenVerifier_AcceptsFreshToken(t *testing.T) {
	key := testKeyPair(t)
	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	token, _, err := issuer.Issue("alice", false, false)
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
}

func TestTokenVerifier_AcceptsBothPrefixVariants(t *testing.T) {
	key := testKeyPair(t)
	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	token, _, err := issuer.Issue("alice", false, false)
	require.NoError(t, err)

	for _, prefix := range []string{"Bearer ", "bearer "} {
		identity, err := verifier.Verify(context.Background(), prefix+token)
		require.NoError(t, err, "prefix %q", prefix)
		assert.Equal(t, "alice", identity.Username)
	}
}

func TestTokenVerifier_RejectsExpiredToken(t *testing.T) {
	key := testKeyPair(t)
	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	token, expiresAt, err := issuer.Issue("alice", false, false)
	require.NoError(t, err)

	// Before expiry the token is good; one second past it, it is not.
	identity, err := verifier.Verify(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, "alice", identity.Username)

	verifier.now = func() time.Time { return expiresAt.Add(time.Second) }
	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenVerifier_RejectsForeignSignature(t *testing.T) {
	signing := testKeyPair(t)
	other := testKeyPair(t)

	issuer := NewTokenIssuer(signing, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&other.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	token, _, err := issuer.Issue("alice", false, false)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenVerifier_RejectsUnrecognizedScheme(t *testing.T) {
	key := testKeyPair(t)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Token abc", "garbage"} {
		_, err := verifier.Verify(context.Background(), header)
		assert.ErrorIs(t, err, ErrUnauthorized, "header %q", header)
	}
}

func TestTokenVerifier_RejectsRevokedToken(t *testing.T) {
	key := testKeyPair(t)
	blacklist := newFakeBlacklist()
	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, blacklist, time.Second)

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	require.NoError(t, blacklist.Put(context.Background(), token, RevokedSentinel, time.Hour))

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenVerifier_BlacklistOutageIsUnavailable(t *testing.T) {
	key := testKeyPair(t)
	blacklist := newFakeBlacklist()
	blacklist.failGet = errors.New("connection refused")

	issuer := NewTokenIssuer(key, "stockade-test", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, blacklist, time.Second)

	token, _, err := issuer.Issue("bob", false, false)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestTokenVerifier_RejectsWrongIssuer(t *testing.T) {
	key := testKeyPair(t)
	issuer := NewTokenIssuer(key, "someone-else", testPolicy)
	verifier := NewTokenVerifier(&key.PublicKey, "stockade-test", nil, newFakeBlacklist(), time.Second)

	token, _, err := issuer.Issue("alice", false, false)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
