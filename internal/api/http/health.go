package http

import (
	"context"
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
	Store     string    `json:"store"`
	Dashboard string    `json:"dashboard,omitempty"`
}

// Pinger is the store backend being checked.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
	status      func() string
}

// NewHealthHandler builds the health endpoints. status, when set, reports the
// dashboard display status alongside the store check.
func NewHealthHandler(serviceName, version string, store Pinger, status func() string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
		status:      status,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
	defer cancel()

	storeStatus := "up"
	code := http.StatusOK
	overall := "healthy"
	if err := h.store.Ping(pingCtx); err != nil {
		storeStatus = "down"
		overall = "degraded"
		code = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Backend:   h.store.Name(),
		Store:     storeStatus,
	}
	if h.status != nil {
		resp.Dashboard = h.status()
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
