package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/prizely-backend/internal/http/response"
)

// Pinger is anything readiness depends on, usually the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	ready := true
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			_ = c.Error(err)
			checks[name] = "down"
			ready = false
			continue
		}
		checks[name] = "up"
	}
	if !ready {
		response.RespondError(c, http.StatusServiceUnavailable, "not_ready", errors.New("dependency unavailable"))
		return
	}
	response.RespondOK(c, gin.H{"status": "ready", "checks": checks})
}
