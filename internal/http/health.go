package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StorageChecker reports on the record store.
type StorageChecker interface {
	Ready() bool
	Ping() error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	storage StorageChecker
	version string
}

func NewHealthController(storage StorageChecker, version string) *HealthController {
	return &HealthController{storage: storage, version: version}
}

// Status reports "degraded" while records only live in memory. It is still a 200
// because the app keeps working, it just forgets everything on restart.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	switch {
	case h.storage == nil:
		checks["storage"] = "not configured"
	case !h.storage.Ready():
		checks["storage"] = "in-memory fallback"
		status = "degraded"
	default:
		if err := h.storage.Ping(); err != nil {
			checks["storage"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["storage"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
