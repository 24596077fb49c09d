// Package health exposes liveness and readiness probes.
package health

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/alpenride/booking-api/internal/catalog"
	"github.com/alpenride/booking-api/internal/common"
)

// Checker answers probe requests. Liveness is unconditional; readiness
// requires Redis and a loaded catalog.
type Checker struct {
	Redis  *redis.Client
	Bundle *catalog.Bundle
}

// Live handles GET /health/live.
func (c *Checker) Live(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready.
func (c *Checker) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"redis": "ok", "catalog": "ok"}
	healthy := true

	if c.Redis == nil {
		checks["redis"] = "not configured"
		healthy = false
	} else if err := c.Redis.Ping(r.Context()).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}
	if c.Bundle == nil {
		checks["catalog"] = "not loaded"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	common.JSON(w, status, map[string]any{"status": statusWord(healthy), "checks": checks})
}

func statusWord(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}
