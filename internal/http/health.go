package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	checker     HealthChecker
	collections []string
	version     string
}

func NewHealthController(checker HealthChecker, collections []string, version string) *HealthController {
	return &HealthController{
		checker:     checker,
		collections: collections,
		version:     version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.checker != nil {
		for _, collection := range h.collections {
			if err := h.checker.Check(collection); err != nil {
				requestLogger(c).Warn().Err(err).Str("collection", collection).Msg("health check failed")
				checks[collection] = "error"
				status = "unhealthy"
			} else {
				checks[collection] = "ok"
			}
		}
	} else {
		checks["storage"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
