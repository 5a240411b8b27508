package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns the catalog schema migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					username VARCHAR(255) PRIMARY KEY,
					password_hash TEXT NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					is_service BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);
			`,
		},
		{
			Version:     2,
			Description: "Create role_grants table",
			SQL: `
				CREATE TABLE IF NOT EXISTS role_grants (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(255) NOT NULL REFERENCES users(username) ON DELETE CASCADE,
					tenant_id VARCHAR(255) NOT NULL DEFAULT '',
					role VARCHAR(50) NOT NULL,
					granted_at TIMESTAMP NOT NULL DEFAULT NOW(),
					UNIQUE(username, tenant_id, role)
				);

				CREATE INDEX IF NOT EXISTS idx_role_grants_username ON role_grants(username);
				CREATE INDEX IF NOT EXISTS idx_role_grants_tenant_id ON role_grants(tenant_id);
			`,
		},
		{
			Version:     3,
			Description: "Create items table",
			SQL: `
				CREATE TABLE IF NOT EXISTS items (
					id BIGSERIAL PRIMARY KEY,
					tenant_id VARCHAR(255) NOT NULL,
					sku VARCHAR(255) NOT NULL,
					name VARCHAR(255) NOT NULL,
					quantity BIGINT NOT NULL DEFAULT 0,
					is_public BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
					UNIQUE(tenant_id, sku)
				);

				CREATE INDEX IF NOT EXISTS idx_items_tenant_id ON items(tenant_id);
				CREATE INDEX IF NOT EXISTS idx_items_is_public ON items(is_public);
			`,
		},
	}
}

// Migrate applies all pending migrations inside a schema_migrations
// version table.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for _, m := range GetMigrations() {
		var applied bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
