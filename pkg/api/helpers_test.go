package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/inventory"
	"github.com/stockade-io/stockade/pkg/observability"
	"github.com/stockade-io/stockade/pkg/rbac"
)

// testPassword is shared by every fixture user.
const testPassword = "s3cret-hunter2"

type memUserStore struct {
	users map[string]*auth.UserRecord
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (*auth.UserRecord, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, auth.ErrUserNotFound
}

type memGrantStore struct {
	mu     sync.Mutex
	grants map[string][]rbac.Grant
}

func (s *memGrantStore) GrantsForUser(_ context.Context, username string) ([]rbac.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grants[username], nil
}

type memBlacklist struct {
	mu      sync.Mutex
	entries map[string]string
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

// memItemStore is an in-memory inventory.Store.
type memItemStore struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]inventory.Item
}

func newMemItemStore() *memItemStore {
	return &memItemStore{nextID: 1, items: make(map[int64]inventory.Item)}
}

func (s *memItemStore) Create(_ context.Context, item *inventory.Item) (*inventory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *item
	stored.ID = s.nextID
	s.nextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.items[stored.ID] = stored
	return &stored, nil
}

func (s *memItemStore) Get(_ context.Context, tenantID string, id int64) (*inventory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.TenantID != tenantID {
		return nil, inventory.ErrItemNotFound
	}
	return &item, nil
}

func (s *memItemStore) List(_ context.Context, tenantID string) ([]inventory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]inventory.Item, 0)
	for _, item := range s.items {
		if item.TenantID == tenantID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *memItemStore) Update(_ context.Context, item *inventory.Item) (*inventory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[item.ID]
	if !ok || stored.TenantID != item.TenantID {
		return nil, inventory.ErrItemNotFound
	}
	stored.Name = item.Name
	stored.Quantity = item.Quantity
	stored.Public = item.Public
	stored.UpdatedAt = time.Now()
	s.items[item.ID] = stored
	return &stored, nil
}

func (s *memItemStore) Delete(_ context.Context, tenantID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.TenantID != tenantID {
		return inventory.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memItemStore) ListVisible(_ context.Context, tenants []string) ([]inventory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := make(map[string]struct{}, len(tenants))
	for _, t := range tenants {
		scope[t] = struct{}{}
	}
	items := make([]inventory.Item, 0)
	for _, item := range s.items {
		if _, ok := scope[item.TenantID]; ok || item.Public {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// serverFixture carries a fully wired server over in-memory stores, with
// the fixture users alice (local_manager in T1), bob (viewer in T1), root
// (admin) and batch-runner (service account, viewer in T1).
type serverFixture struct {
	server *Server
	grants *memGrantStore
	items  *memItemStore
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(4)
	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	users := &memUserStore{users: map[string]*auth.UserRecord{
		"alice":        {Username: "alice", PasswordHash: hash, Active: true},
		"bob":          {Username: "bob", PasswordHash: hash, Active: true},
		"root":         {Username: "root", PasswordHash: hash, Active: true},
		"mallory":      {Username: "mallory", PasswordHash: hash, Active: false},
		"batch-runner": {Username: "batch-runner", PasswordHash: hash, Active: true, Service: true},
	}}
	grants := &memGrantStore{grants: map[string][]rbac.Grant{
		"alice":        {{Username: "alice", TenantID: "T1", Role: rbac.RoleLocalManager}},
		"bob":          {{Username: "bob", TenantID: "T1", Role: rbac.RoleViewer}},
		"root":         {{Username: "root", Role: rbac.RoleAdmin}},
		"batch-runner": {{Username: "batch-runner", TenantID: "T1", Role: rbac.RoleViewer}},
	}}

	blacklist := &memBlacklist{entries: make(map[string]string)}
	items := newMemItemStore()

	const issuerName = "stockade-test"
	server := NewServer(Options{
		Validator: auth.NewCredentialValidator(users, hasher, time.Second),
		Issuer:    auth.NewTokenIssuer(key, issuerName, auth.DefaultLifetimePolicy),
		Verifier:  auth.NewTokenVerifier(&key.PublicKey, issuerName, nil, blacklist, time.Second),
		Revoker:   auth.NewRevoker(&key.PublicKey, nil, blacklist, 48*time.Hour, time.Second),
		Checker:   rbac.NewChecker(grants, time.Second),
		Items:     items,
		Logger:    observability.NewLogger(observability.ErrorLevel, io.Discard),
		Metrics:   observability.NewMetrics(),
	})

	return &serverFixture{server: server, grants: grants, items: items}
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

// login authenticates username with the shared fixture password and
// returns the bearer token.
func (f *serverFixture) login(t *testing.T, username string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login for %s: %s", username, rec.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
