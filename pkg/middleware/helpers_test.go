package middleware

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/contextkeys"
	"github.com/stockade-io/stockade/pkg/rbac"
)

const testIssuerName = "stockade-test"

// memBlacklist is an in-memory auth.Blacklist for middleware tests.
type memBlacklist struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{entries: make(map[string]string)}
}

func (b *memBlacklist) Put(_ context.Context, token, value string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[token] = value
	return nil
}

func (b *memBlacklist) Get(_ context.Context, token string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.entries[token]
	return value, ok, nil
}

type memGrantStore struct {
	grants map[string][]rbac.Grant
}

func (s *memGrantStore) GrantsForUser(_ context.Context, username string) ([]rbac.Grant, error) {
	return s.grants[username], nil
}

// newTokenPair returns an issuer and verifier sharing a fresh key pair.
func newTokenPair(t *testing.T) (*auth.TokenIssuer, *auth.TokenVerifier) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	issuer := auth.NewTokenIssuer(key, testIssuerName, auth.DefaultLifetimePolicy)
	verifier := auth.NewTokenVerifier(&key.PublicKey, testIssuerName, nil, newMemBlacklist(), time.Second)
	return issuer, verifier
}

// identitySpy records the identity and tenant the middleware chain left in
// the request context.
type identitySpy struct {
	called   bool
	identity *auth.Identity
	tenantID string
}

func (s *identitySpy) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.identity = contextkeys.IdentityFrom(r.Context())
		s.tenantID = contextkeys.TenantFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}
