// Liveness and readiness probes.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports the health of a single infrastructure component.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a named function to the HealthChecker interface.
type CheckerFunc struct {
	ComponentName string
	CheckFn       func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.ComponentName }
func (c CheckerFunc) Check(ctx context.Context) error { return c.CheckFn(ctx) }

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
}

// NewHealthHandler creates a HealthHandler checking the given components
// for readiness.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
	}
}

// ComponentCheck is the readiness status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  It confirms only that the process is
// serving requests and never touches external dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startAt).Round(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  It probes every registered component
// and returns 503 if any of them fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]ComponentCheck, len(h.checkers))
	healthy := true
	for _, checker := range h.checkers {
		start := time.Now()
		err := checker.Check(ctx)
		check := ComponentCheck{
			Status:  "ok",
			Latency: time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			check.Status = "unhealthy"
			check.Error = err.Error()
			healthy = false
		}
		components[checker.Name()] = check
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":     overall,
		"components": components,
	})
}
