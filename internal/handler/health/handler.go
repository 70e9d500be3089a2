package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schedly/catalog-api/pkg/httputil"
)

// Check reports whether a single backing dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
}

// NewHandler wires readiness checks keyed by dependency name
// (e.g. "postgres", "redis").
func NewHandler(checks map[string]Check) *Handler {
	return &Handler{checks: checks}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.Liveness)
		health.GET("/ready", h.Readiness)
	}
}

type status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Liveness only confirms the process is serving requests.
func (h *Handler) Liveness(c *gin.Context) {
	httputil.RespondWithSuccess(c, status{Status: "up"})
}

// Readiness pings every dependency and reports each result, so a 503
// names the one that is down.
func (h *Handler) Readiness(c *gin.Context) {
	results := make(map[string]string, len(h.checks))
	ready := true

	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			results[name] = err.Error()
			ready = false
			continue
		}
		results[name] = "up"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, httputil.Response{
			Success: false,
			Data:    status{Status: "down", Checks: results},
		})
		return
	}

	httputil.RespondWithSuccess(c, status{Status: "up", Checks: results})
}
