package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/stockade-io/stockade/pkg/contextkeys"
	"github.com/stockade-io/stockade/pkg/httputil"
)

// loginRequest is the login payload. Extended requests a long session;
// the granted lifetime class also depends on whether the account is a
// service account.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Extended bool   `json:"extended"`
}

// loginResponse returns the bearer token. No other session state exists:
// the service is stateless between issuance and verification except for
// the revocation blacklist.
type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// login handles POST /api/v1/auth/login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Username, "username") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	user, err := s.opts.Validator.Validate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.countLogin("failure")
		// The response stays generic; the cause is only logged.
		s.opts.Logger.Warn("login rejected",
			"username", req.Username,
			"request_id", contextkeys.RequestIDFrom(r.Context()),
			"error", err.Error())
		httputil.WriteAuthError(w, err)
		return
	}

	token, expiresAt, err := s.opts.Issuer.Issue(user.Username, req.Extended, user.Service)
	if err != nil {
		s.countLogin("failure")
		s.opts.Logger.Error("token issuance failed", "username", user.Username, "error", err.Error())
		httputil.WriteInternalError(w, fmt.Errorf("token issuance failed"))
		return
	}

	s.countLogin("success")
	httputil.WriteSuccess(w, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		Username:  user.Username,
	})
}

// logout handles POST /api/v1/auth/logout. Success is only reported after
// the blacklist entry has been read back.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	identity := contextkeys.IdentityFrom(r.Context())

	if err := s.opts.Revoker.Revoke(r.Context(), r.Header.Get("Authorization")); err != nil {
		s.countRevocation("failure")
		s.opts.Logger.Warn("logout failed",
			"username", identity.Username,
			"request_id", contextkeys.RequestIDFrom(r.Context()),
			"error", err.Error())
		httputil.WriteAuthError(w, err)
		return
	}

	s.countRevocation("success")
	httputil.WriteSuccess(w, map[string]string{
		"message": fmt.Sprintf("user %s logged out", identity.Username),
	})
}

// whoami handles GET /api/v1/auth/whoami: the identity plus its freshly
// resolved grants.
func (s *Server) whoami(w http.ResponseWriter, r *http.Request) {
	identity := contextkeys.IdentityFrom(r.Context())

	grants, err := s.opts.Checker.Grants(r.Context(), identity)
	if err != nil {
		httputil.WriteAuthError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"username": identity.Username,
		"grants":   grants,
	})
}

func (s *Server) countLogin(outcome string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) countRevocation(outcome string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.RevocationsTotal.WithLabelValues(outcome).Inc()
	}
}
