package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockade-io/stockade/pkg/contextkeys"
)

// DefaultTenantHeader is the header carrying the opaque tenant identifier.
const DefaultTenantHeader = "X-Tenant-ID"

// Tenant resolves the tenant scope for a request. The {tenant_id} path
// variable is authoritative when present: it names the resource being
// touched, so the guard must check that tenant and no other. The header
// is the fallback for routes without a tenant in the path. The middleware
// only records the scope; whether an empty scope is acceptable is the
// role guard's call.
func Tenant(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultTenantHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := mux.Vars(r)["tenant_id"]
			if tenantID == "" {
				tenantID = r.Header.Get(header)
			}
			next.ServeHTTP(w, r.WithContext(contextkeys.WithTenant(r.Context(), tenantID)))
		})
	}
}
