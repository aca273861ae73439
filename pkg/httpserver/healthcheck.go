package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/flagkit/pkg/logger"
)

// HealthCheckHandler builds a probe endpoint from dependency checks.
// With no probes it always reports healthy, which suits liveness.
// With probes it runs each against the request context and reports
// 503 as soon as one fails, which suits readiness.
func HealthCheckHandler(log *slog.Logger, probes ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness probe failed", logger.Error(err))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
