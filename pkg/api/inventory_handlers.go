package api

import (
	"errors"
	"net/http"

	"github.com/stockade-io/stockade/pkg/contextkeys"
	"github.com/stockade-io/stockade/pkg/httputil"
	"github.com/stockade-io/stockade/pkg/inventory"
)

// itemRequest is the create/update payload.
type itemRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Public   bool   `json:"public"`
}

// createItem handles POST /api/v1/tenants/{tenant_id}/items.
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	tenantID := contextkeys.TenantFrom(r.Context())

	var req itemRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.SKU, "sku") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	item, err := s.opts.Items.Create(r.Context(), &inventory.Item{
		TenantID: tenantID,
		SKU:      req.SKU,
		Name:     req.Name,
		Quantity: req.Quantity,
		Public:   req.Public,
	})
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteCreated(w, item)
}

// listItems handles GET /api/v1/tenants/{tenant_id}/items.
func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	tenantID := contextkeys.TenantFrom(r.Context())

	items, err := s.opts.Items.List(r.Context(), tenantID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, items)
}

// getItem handles GET /api/v1/tenants/{tenant_id}/items/{id}.
func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	tenantID := contextkeys.TenantFrom(r.Context())
	id, ok := httputil.PathInt64(w, r, "id")
	if !ok {
		return
	}

	item, err := s.opts.Items.Get(r.Context(), tenantID, id)
	if errors.Is(err, inventory.ErrItemNotFound) {
		httputil.WriteNotFound(w, "item not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, item)
}

// updateItem handles PUT /api/v1/tenants/{tenant_id}/items/{id}.
func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	tenantID := contextkeys.TenantFrom(r.Context())
	id, ok := httputil.PathInt64(w, r, "id")
	if !ok {
		return
	}

	var req itemRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	item, err := s.opts.Items.Update(r.Context(), &inventory.Item{
		ID:       id,
		TenantID: tenantID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Public:   req.Public,
	})
	if errors.Is(err, inventory.ErrItemNotFound) {
		httputil.WriteNotFound(w, "item not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, item)
}

// deleteItem handles DELETE /api/v1/tenants/{tenant_id}/items/{id}.
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	tenantID := contextkeys.TenantFrom(r.Context())
	id, ok := httputil.PathInt64(w, r, "id")
	if !ok {
		return
	}

	err := s.opts.Items.Delete(r.Context(), tenantID, id)
	if errors.Is(err, inventory.ErrItemNotFound) {
		httputil.WriteNotFound(w, "item not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// listVisibleItems handles GET /api/v1/public/items. An identity widens
// the listing to the caller's tenants; its absence never denies.
func (s *Server) listVisibleItems(w http.ResponseWriter, r *http.Request) {
	identity := contextkeys.IdentityFrom(r.Context())

	tenants, err := s.opts.Checker.ResolveTenants(r.Context(), identity)
	if err != nil {
		httputil.WriteAuthError(w, err)
		return
	}

	// An explicit tenant scope narrows an authenticated caller's view to
	// one of their tenants.
	if scope := contextkeys.TenantFrom(r.Context()); scope != "" {
		narrowed := tenants[:0]
		for _, t := range tenants {
			if t == scope {
				narrowed = append(narrowed, t)
			}
		}
		tenants = narrowed
	}

	items, err := s.opts.Items.ListVisible(r.Context(), tenants)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, items)
}
