// Package middleware provides the request-processing chain: request IDs,
// bearer-token authentication, tenant scope resolution, and the role
// guard. Order matters: Auth must run before RequireRoles, and Tenant
// before any tenant-scoped handler.
package middleware

import (
	"net/http"

	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/contextkeys"
	"github.com/stockade-io/stockade/pkg/httputil"
	"github.com/stockade-io/stockade/pkg/observability"
)

// Auth verifies the Authorization header and injects the resulting
// identity into the request context.
type Auth struct {
	verifier *auth.TokenVerifier
	metrics  *observability.Metrics
	// optional admits requests without a valid token; used by public
	// routes, which must not deny for missing or invalid credentials.
	optional bool
}

// NewAuth returns the authentication middleware. metrics may be nil.
func NewAuth(verifier *auth.TokenVerifier, metrics *observability.Metrics, optional bool) *Auth {
	return &Auth{verifier: verifier, metrics: metrics, optional: optional}
}

// Handler wraps next with token verification.
func (m *Auth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.verifier.Verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			m.count("denied")
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			httputil.WriteAuthError(w, err)
			return
		}

		m.count("ok")
		next.ServeHTTP(w, r.WithContext(contextkeys.WithIdentity(r.Context(), identity)))
	})
}

func (m *Auth) count(outcome string) {
	if m.metrics != nil {
		m.metrics.TokenVerificationsTotal.WithLabelValues(outcome).Inc()
	}
}
