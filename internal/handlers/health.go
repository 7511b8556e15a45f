package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Pinger checks a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports "healthy", or "degraded" with a 503 when db does not answer.
func Health(db Pinger, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if err := db.PingContext(r.Context()); err != nil {
			log.Warn().Err(err).Msg("database ping failed")
			status, code = "degraded", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
			log.Warn().Err(err).Msg("failed to write health response")
		}
	}
}
