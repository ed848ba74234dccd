package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger checks that a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the API and its database are up.
type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil, in which case
// only the process itself is reported.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

const healthPingTimeout = 2 * time.Second

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check: database unreachable")
			respondJSON(c, http.StatusServiceUnavailable, HealthResponse{
				Status:    "ERROR",
				Message:   "Database is unreachable",
				Timestamp: h.now().UTC(),
			})
			return
		}
	}

	respondJSON(c, http.StatusOK, HealthResponse{
		Status:    "OK",
		Message:   "Car Rental System API is running",
		Timestamp: h.now().UTC(),
	})
}
