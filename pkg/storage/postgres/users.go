package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockade-io/stockade/pkg/auth"
)

// UserStore reads user records from the catalog database. Records are
// created and mutated by user management elsewhere; this store is
// read-only.
type UserStore struct {
	db *sql.DB
}

// NewUserStore returns a UserStore over db.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername returns the record for username, or auth.ErrUserNotFound.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*auth.UserRecord, error) {
	user := &auth.UserRecord{}
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, is_active, is_service
		FROM users WHERE username = $1
	`, username).Scan(&user.Username, &user.PasswordHash, &user.Active, &user.Service)
	if err == sql.ErrNoRows {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return user, nil
}
