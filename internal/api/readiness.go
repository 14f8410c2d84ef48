package api

import (
	"context"
	"fmt"

	"github.com/transcriptai/transcript-service/internal/observability"
)

// readinessChecks builds the per-dependency probes for /ready
func (s *Server) readinessChecks() map[string]observability.HealthCheckFunc {
	checks := map[string]observability.HealthCheckFunc{
		"gemini": func(ctx context.Context) (bool, error) {
			// Validates configuration only; a real API call per probe
			// would burn quota.
			if s.cfg.GeminiAPIKey == "" {
				return false, fmt.Errorf("GEMINI_API_KEY is not set")
			}
			return true, nil
		},
	}

	if s.store != nil {
		checks["storage"] = func(ctx context.Context) (bool, error) {
			if !s.cfg.StorageConfigured() {
				return false, fmt.Errorf("R2 credentials are not configured")
			}
			return true, nil
		}
	}

	return checks
}
