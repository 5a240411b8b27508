package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"
)

// testKeyPair generates a throwaway RSA key pair. 1024 bits keeps the
// tests fast; production keys are provisioned externally.
func testKeyPair(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

// fakeBlacklist is an in-memory auth.Blacklist with switchable failure
// modes.
type fakeBlacklist struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration

	failPut    error
	failGet    error
	dropWrites bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (b *fakeBlacklist) Put(_ context.Context, token, value string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut != nil {
		return b.failPut
	}
	if b.dropWrites {
		return nil
	}
	b.entries[token] = value
	b.ttls[token] = ttl
	return nil
}

func (b *fakeBlacklist) Get(_ context.Context, token string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failGet != nil {
		return "", false, b.failGet
	}
	value, found := b.entries[token]
	return value, found, nil
}

// fakeUserStore is an in-memory auth.UserStore.
type fakeUserStore struct {
	users map[string]*UserRecord
	err   error
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*UserRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}
