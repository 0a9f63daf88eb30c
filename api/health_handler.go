package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthCheck func(ctx context.Context) error

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
	checks      map[string]healthCheck
}

func newHealthHandler(startupTime time.Time, checks map[string]healthCheck) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
		checks:      checks,
	}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// check reports "ok" when every dependency answers, otherwise 503 with the failures
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		response := HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
			Checks: make(map[string]string, len(h.checks)),
		}
		status := http.StatusOK
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				h.logger.Warn().Err(err).Str("check", name).Msg("health check failed")
				response.Checks[name] = err.Error()
				response.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			response.Checks[name] = "ok"
		}

		h.responder.WriteJSONStatus(w, status, response)
	}
}
