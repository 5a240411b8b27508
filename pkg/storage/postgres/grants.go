package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stockade-io/stockade/pkg/rbac"
)

// GrantStore reads role grants from the catalog database. Every lookup
// hits the database: grants are deliberately never cached so that a
// revoked role stops authorizing on the next request.
type GrantStore struct {
	db *sql.DB
}

// NewGrantStore returns a GrantStore over db.
func NewGrantStore(db *sql.DB) *GrantStore {
	return &GrantStore{db: db}
}

// GrantsForUser returns the current grants for username, newest first.
func (s *GrantStore) GrantsForUser(ctx context.Context, username string) ([]rbac.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, tenant_id, role
		FROM role_grants
		WHERE username = $1
		ORDER BY granted_at DESC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("grant lookup failed: %w", err)
	}
	defer rows.Close()

	grants := make([]rbac.Grant, 0)
	for rows.Next() {
		var g rbac.Grant
		if err := rows.Scan(&g.Username, &g.TenantID, &g.Role); err != nil {
			return nil, fmt.Errorf("grant scan failed: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}
