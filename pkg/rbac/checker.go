package rbac

import (
	"context"
	"fmt"
	"time"

	"github.com/stockade-io/stockade/pkg/auth"
)

// Decide is the pure authorization rule over already-resolved grants. It
// allows when the grants contain an admin role anywhere, or when at least
// one required role is held, within tenantID when the operation is
// tenant-scoped (tenantID non-empty) and in any scope otherwise. An empty
// required set admits any authenticated identity.
//
// Decide performs no I/O and holds no state, so it is testable without an
// HTTP harness or a store.
func Decide(grants []Grant, required []Role, tenantID string) Decision {
	for _, g := range grants {
		if g.Role == RoleAdmin {
			return Decision{Allowed: true, MatchedRole: RoleAdmin, Reason: "admin grant"}
		}
	}

	if len(required) == 0 {
		return Decision{Allowed: true, TenantID: tenantID, Reason: "no role required"}
	}

	for _, g := range grants {
		if tenantID != "" && g.TenantID != tenantID {
			continue
		}
		for _, want := range required {
			if g.Role == want {
				return Decision{
					Allowed:     true,
					TenantID:    tenantID,
					MatchedRole: g.Role,
					Reason:      fmt.Sprintf("granted by role %q", g.Role),
				}
			}
		}
	}

	if tenantID != "" {
		return Decision{TenantID: tenantID, Reason: fmt.Sprintf("no required role held in tenant %q", tenantID)}
	}
	return Decision{Reason: "no required role held"}
}

// Checker resolves grants and applies Decide. One Checker serves all
// requests; it keeps no per-request state.
type Checker struct {
	grants  GrantStore
	timeout time.Duration
}

// NewChecker returns a Checker over the given grant store. timeout bounds
// each grant lookup; <= 0 disables the bound.
func NewChecker(grants GrantStore, timeout time.Duration) *Checker {
	return &Checker{grants: grants, timeout: timeout}
}

// Authorize decides whether identity may perform an operation requiring
// one of the given roles. tenantScoped marks operations that demand a
// tenant scope: for those, non-admin callers must supply tenantID and
// hold a required role inside it. Denials return ErrForbidden with the
// decision attached; grant-store outages return ErrUnavailable.
func (c *Checker) Authorize(ctx context.Context, identity *auth.Identity, required []Role, tenantID string, tenantScoped bool) (*Decision, error) {
	if identity == nil {
		return nil, fmt.Errorf("no authenticated identity: %w", auth.ErrUnauthorized)
	}

	grants, err := c.resolve(ctx, identity.Username)
	if err != nil {
		return nil, err
	}

	if tenantScoped && tenantID == "" && !holdsAdmin(grants) {
		d := &Decision{Reason: "tenant scope required"}
		return d, fmt.Errorf("%s: %w", d.Reason, auth.ErrForbidden)
	}

	decision := Decide(grants, required, tenantID)
	if !decision.Allowed {
		return &decision, fmt.Errorf("%s: %w", decision.Reason, auth.ErrForbidden)
	}
	return &decision, nil
}

// ResolveTenants returns the tenants identity holds any grant in. Used by
// public-but-tenant-aware operations to widen results without ever
// denying; a nil identity resolves to no tenants.
func (c *Checker) ResolveTenants(ctx context.Context, identity *auth.Identity) ([]string, error) {
	if identity == nil {
		return nil, nil
	}
	grants, err := c.resolve(ctx, identity.Username)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(grants))
	tenants := make([]string, 0, len(grants))
	for _, g := range grants {
		if g.TenantID == "" {
			continue
		}
		if _, ok := seen[g.TenantID]; ok {
			continue
		}
		seen[g.TenantID] = struct{}{}
		tenants = append(tenants, g.TenantID)
	}
	return tenants, nil
}

// Grants returns the identity's current grants, for introspection
// endpoints.
func (c *Checker) Grants(ctx context.Context, identity *auth.Identity) ([]Grant, error) {
	if identity == nil {
		return nil, fmt.Errorf("no authenticated identity: %w", auth.ErrUnauthorized)
	}
	return c.resolve(ctx, identity.Username)
}

func (c *Checker) resolve(ctx context.Context, username string) ([]Grant, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	grants, err := c.grants.GrantsForUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("grant lookup for %q: %v: %w", username, err, auth.ErrUnavailable)
	}
	return grants, nil
}

func holdsAdmin(grants []Grant) bool {
	for _, g := range grants {
		if g.Role == RoleAdmin {
			return true
		}
	}
	return false
}
