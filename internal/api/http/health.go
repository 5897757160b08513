package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Backend   string    `json:"backend"`

	// BackendCheckedAt is the time of the last probe, absent before the first.
	BackendCheckedAt *time.Time `json:"backend_checked_at,omitempty"`
}

// BackendStatus reports the last known state of the REST backend.
type BackendStatus interface {
	Status() string
	CheckedAt() time.Time
}

type HealthHandler struct {
	serviceName string
	version     string
	backend     BackendStatus
}

func NewHealthHandler(serviceName, version string, backend BackendStatus) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		backend:     backend,
	}
}

// HealthCheck always answers 200: the web server stays up when the backend
// is down, it just shows error states.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Backend:   "unknown",
	}
	if h.backend != nil {
		resp.Backend = h.backend.Status()
		if at := h.backend.CheckedAt(); !at.IsZero() {
			at = at.UTC()
			resp.BackendCheckedAt = &at
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
