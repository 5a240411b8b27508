// Package api wires the HTTP surface: authentication endpoints and the
// guard-protected inventory endpoints.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockade-io/stockade/pkg/auth"
	"github.com/stockade-io/stockade/pkg/inventory"
	"github.com/stockade-io/stockade/pkg/middleware"
	"github.com/stockade-io/stockade/pkg/observability"
	"github.com/stockade-io/stockade/pkg/rbac"
)

// Options collects the collaborators the server needs. Every component is
// constructed by the caller and injected; the server holds no ambient
// singletons.
type Options struct {
	Validator *auth.CredentialValidator
	Issuer    *auth.TokenIssuer
	Verifier  *auth.TokenVerifier
	Revoker   *auth.Revoker
	Checker   *rbac.Checker
	Items     inventory.Store

	Logger  *observability.Logger
	Metrics *observability.Metrics

	// TenantHeader is the header carrying the tenant scope; empty selects
	// middleware.DefaultTenantHeader.
	TenantHeader string
}

// Server is the HTTP API.
type Server struct {
	router *mux.Router
	opts   Options
}

// NewServer builds the router and middleware chains.
func NewServer(opts Options) *Server {
	s := &Server{
		router: mux.NewRouter(),
		opts:   opts,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	if s.opts.Metrics != nil {
		s.router.Use(s.httpMetrics)
	}

	requireAuth := middleware.NewAuth(s.opts.Verifier, s.opts.Metrics, false)
	optionalAuth := middleware.NewAuth(s.opts.Verifier, s.opts.Metrics, true)
	tenant := middleware.Tenant(s.opts.TenantHeader)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Login is the only credentialed route; everything else rides the
	// bearer token.
	api.HandleFunc("/auth/login", s.login).Methods("POST")

	authed := api.PathPrefix("/auth").Subrouter()
	authed.Use(requireAuth.Handler)
	authed.HandleFunc("/logout", s.logout).Methods("POST")
	authed.HandleFunc("/whoami", s.whoami).Methods("GET")

	// Tenant-scoped inventory. Verification, scope resolution, then the
	// role guard run before any handler.
	items := api.PathPrefix("/tenants/{tenant_id}/items").Subrouter()
	items.Use(requireAuth.Handler, tenant)

	read := middleware.RequireRoles(s.opts.Checker, s.opts.Metrics, true,
		rbac.RoleLocalManager, rbac.RoleViewer)
	write := middleware.RequireRoles(s.opts.Checker, s.opts.Metrics, true,
		rbac.RoleLocalManager)

	items.Handle("", read(http.HandlerFunc(s.listItems))).Methods("GET")
	items.Handle("", write(http.HandlerFunc(s.createItem))).Methods("POST")
	items.Handle("/{id}", read(http.HandlerFunc(s.getItem))).Methods("GET")
	items.Handle("/{id}", write(http.HandlerFunc(s.updateItem))).Methods("PUT")
	items.Handle("/{id}", write(http.HandlerFunc(s.deleteItem))).Methods("DELETE")

	// Public-but-tenant-aware: scope and identity widen the result set
	// but never cause a denial.
	public := api.PathPrefix("/public").Subrouter()
	public.Use(optionalAuth.Handler, tenant)
	public.HandleFunc("/items", s.listVisibleItems).Methods("GET")
}

// httpMetrics records request counts and latency.
func (s *Server) httpMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.opts.Metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		s.opts.Metrics.HTTPRequestDuration.
			WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
