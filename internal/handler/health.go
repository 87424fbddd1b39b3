package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gmichnikov/nl-2-sports-schedule/internal/models"
)

const version = "1.0.0"

// HealthChecker is implemented by services that can report connectivity.
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// HealthHandler handles GET /health with a data-store connectivity check.
type HealthHandler struct {
	store HealthChecker
}

func NewHealthHandler(store HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	status := "healthy"
	code := http.StatusOK

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.store != nil {
		if err := h.store.TestConnection(ctx); err != nil {
			checks["dolthub"] = "unavailable: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["dolthub"] = "ok"
		}
	} else {
		checks["dolthub"] = "disabled"
	}

	models.WriteJSON(w, code, models.HealthResponse{
		Status:  status,
		Version: version,
		Checks:  checks,
	})
}
