// Package inventory is the business collaborator the access-control core
// protects: tenant-scoped stock items with plain CRUD. It holds no
// authorization logic; the guard has already run by the time any Store
// method is called.
package inventory

import (
	"context"
	"errors"
	"time"
)

// ErrItemNotFound is returned when no item matches the lookup.
var ErrItemNotFound = errors.New("item not found")

// Item is one stock line within a tenant.
type Item struct {
	ID       int64  `json:"id"`
	TenantID string `json:"tenant_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	// Public items are visible on the unauthenticated listing.
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists items. Implementations must scope every operation to the
// given tenant.
type Store interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	Get(ctx context.Context, tenantID string, id int64) (*Item, error)
	List(ctx context.Context, tenantID string) ([]Item, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, tenantID string, id int64) error
	// ListVisible returns public items plus all items in the given
	// tenants, for the public-but-tenant-aware listing.
	ListVisible(ctx context.Context, tenants []string) ([]Item, error)
}
