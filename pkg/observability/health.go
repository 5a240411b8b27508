package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/stockade-io/stockade/pkg/httputil"
)

// Pinger is anything that can report its own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service health: 200 when every dependency answers
// a ping within the deadline, 503 otherwise.
func HealthHandler(deps map[string]Pinger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "unhealthy: " + err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		httputil.WriteJSON(w, status, map[string]interface{}{
			"status": http.StatusText(status),
			"checks": checks,
		})
	})
}
