package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/stockade-io/stockade/pkg/contextkeys"
)

// RequestIDHeader carries the request ID on responses and is honored on
// inbound requests from trusted proxies.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID, echoes it on the response, and
// stores it in the context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(contextkeys.WithRequestID(r.Context(), id)))
	})
}
