// Package rbac decides whether an authenticated identity may perform an
// operation, optionally scoped to a tenant. Grants are resolved fresh on
// every check, never read from the token, so a role change takes effect
// on the very next request.
package rbac

import (
	"context"
)

// Role names a capability level an identity can hold within a tenant.
type Role string

const (
	// RoleAdmin is tenant-independent: an admin grant in any scope
	// authorizes every operation in every tenant.
	RoleAdmin Role = "admin"
	// RoleLocalManager may read and write inventory within its tenant.
	RoleLocalManager Role = "local_manager"
	// RoleViewer may read inventory within its tenant.
	RoleViewer Role = "viewer"
)

// Grant assigns a role to a username within one tenant. Admin grants
// ignore the tenant field.
type Grant struct {
	Username string `json:"username"`
	TenantID string `json:"tenant_id"`
	Role     Role   `json:"role"`
}

// GrantStore resolves the current grants for a username. Implementations
// must not cache across requests on the identity's behalf.
type GrantStore interface {
	GrantsForUser(ctx context.Context, username string) ([]Grant, error)
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool `json:"allowed"`
	// TenantID is the resolved tenant scope, empty for unscoped
	// operations or admin access.
	TenantID string `json:"tenant_id,omitempty"`
	// MatchedRole is the grant that satisfied the check, empty on deny.
	MatchedRole Role   `json:"matched_role,omitempty"`
	Reason      string `json:"reason"`
}
