package handlers

import (
	"context"
	"net/http"

	"github.com/liamwears/reelbrowser/internal/services"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler answers GET /health
type HealthHandler struct {
	redis Pinger
	mode  services.CredentialMode
}

// NewHealthHandler creates a health handler. A nil redis means rate limiting
// is disabled and is reported as such.
func NewHealthHandler(redis Pinger, mode services.CredentialMode) *HealthHandler {
	return &HealthHandler{redis: redis, mode: mode}
}

type healthResponse struct {
	Status      string `json:"status"`
	Redis       string `json:"redis"`
	Credentials string `json:"credentials"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Redis:       "disabled",
		Credentials: h.mode.String(),
	}
	status := http.StatusOK

	if h.redis != nil {
		resp.Redis = "up"
		if err := h.redis.Health(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Redis = "down"
			status = http.StatusServiceUnavailable
		}
	}

	// Missing credentials degrade the API but the process is still serving
	if h.mode == services.CredentialNone {
		resp.Status = "degraded"
	}

	writeJSON(w, status, resp)
}
