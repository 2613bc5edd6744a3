package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports service liveness and the state of its backing
// dependencies (Postgres, Redis).
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheck returns a liveness handler with no dependency probes
func HealthCheck(serviceName, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: serviceName,
			Version: version,
		})
	}
}

// HealthCheckWithDeps returns a handler that probes each named dependency.
// Any failing probe degrades the response to 503 with the failure recorded
// per check, so a load balancer drains the instance while the body still
// says which dependency is down.
func HealthCheckWithDeps(serviceName, version string, checks map[string]func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:  "ok",
			Service: serviceName,
			Version: version,
			Checks:  make(map[string]string, len(checks)),
		}

		code := http.StatusOK
		for name, probe := range checks {
			if err := probe(); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		c.JSON(code, resp)
	}
}
