// Package contextkeys centralizes the request context keys used across
// the service so handlers and middleware agree on what is stored where.
package contextkeys

import (
	"context"

	"github.com/stockade-io/stockade/pkg/auth"
)

// Key is the type for context keys to prevent collisions.
type Key string

const (
	// IdentityKey contains *auth.Identity.
	// Set by: middleware.Auth after token verification.
	// Absent on public routes when no valid token was presented.
	IdentityKey Key = "identity"

	// TenantKey contains the tenant identifier string from the tenant
	// scope header. Set by: middleware.Tenant. Empty when no scope was
	// supplied.
	TenantKey Key = "tenant_id"

	// RequestIDKey contains the request ID string (UUID).
	// Set by: middleware.RequestID.
	RequestIDKey Key = "request_id"
)

// WithIdentity stores an authenticated identity in ctx.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFrom returns the authenticated identity, or nil when the request
// is unauthenticated.
func IdentityFrom(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return identity
}

// WithTenant stores the resolved tenant scope in ctx.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantKey, tenantID)
}

// TenantFrom returns the tenant scope, or "" when none was supplied.
func TenantFrom(ctx context.Context) string {
	tenantID, _ := ctx.Value(TenantKey).(string)
	return tenantID
}

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFrom returns the request ID, or "" when none was assigned.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
