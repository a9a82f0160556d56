package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"toolcheck/internal/version"
)

// HealthCheck reports service liveness and the running build.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}
