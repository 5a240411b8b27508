package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements Store over the catalog database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a PostgresStore over db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const itemColumns = "id, tenant_id, sku, name, quantity, is_public, created_at, updated_at"

func scanItem(row interface{ Scan(...interface{}) error }) (*Item, error) {
	item := &Item{}
	err := row.Scan(&item.ID, &item.TenantID, &item.SKU, &item.Name,
		&item.Quantity, &item.Public, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("item scan failed: %w", err)
	}
	return item, nil
}

// Create inserts item and returns it with generated fields populated.
func (s *PostgresStore) Create(ctx context.Context, item *Item) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO items (tenant_id, sku, name, quantity, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+itemColumns,
		item.TenantID, item.SKU, item.Name, item.Quantity, item.Public)
	return scanItem(row)
}

// Get returns one item within tenantID.
func (s *PostgresStore) Get(ctx context.Context, tenantID string, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	return scanItem(row)
}

// List returns all items within tenantID, newest first.
func (s *PostgresStore) List(ctx context.Context, tenantID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("item list failed: %w", err)
	}
	return collectItems(rows)
}

// Update rewrites the mutable fields of an existing item.
func (s *PostgresStore) Update(ctx context.Context, item *Item) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE items SET name = $1, quantity = $2, is_public = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
		RETURNING `+itemColumns,
		item.Name, item.Quantity, item.Public, item.TenantID, item.ID)
	return scanItem(row)
}

// Delete removes one item within tenantID.
func (s *PostgresStore) Delete(ctx context.Context, tenantID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("item delete failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("item delete failed: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ListVisible returns public items plus all items in tenants.
func (s *PostgresStore) ListVisible(ctx context.Context, tenants []string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE is_public = TRUE OR tenant_id = ANY($1)
		ORDER BY created_at DESC
	`, pq.Array(tenants))
	if err != nil {
		return nil, fmt.Errorf("visible item list failed: %w", err)
	}
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]Item, error) {
	defer rows.Close()
	items := make([]Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
