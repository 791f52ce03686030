package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLiveness handles GET /healthz.
func (s *Server) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadiness handles GET /readyz. It reports degraded when the field
// config store cannot be reached.
func (s *Server) GetReadiness(c *gin.Context) {
	checks := map[string]string{"store": "ok"}
	status, httpStatus := "ok", http.StatusOK

	if err := s.store.Ping(c.Request.Context()); err != nil {
		checks["store"] = "error"
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{"status": status, "checks": checks})
}
