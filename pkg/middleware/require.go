package middleware

import (
	"net/http"

	"github.com/stockade-io/stockade/pkg/contextkeys"
	"github.com/stockade-io/stockade/pkg/httputil"
	"github.com/stockade-io/stockade/pkg/observability"
	"github.com/stockade-io/stockade/pkg/rbac"
)

// RequireRoles guards an operation behind the role checker. tenantScoped
// operations demand a resolved tenant scope for non-admin callers. The
// guard runs after Auth and Tenant and before any business logic.
func RequireRoles(checker *rbac.Checker, metrics *observability.Metrics, tenantScoped bool, roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := contextkeys.IdentityFrom(r.Context())
			tenantID := contextkeys.TenantFrom(r.Context())

			_, err := checker.Authorize(r.Context(), identity, roles, tenantID, tenantScoped)
			if err != nil {
				if metrics != nil {
					metrics.GuardDecisionsTotal.WithLabelValues("deny").Inc()
				}
				httputil.WriteAuthError(w, err)
				return
			}

			if metrics != nil {
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}
