// Package server assembles the gin router and runs the HTTP service.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"toolcheck/internal/handlers"
)

// RouterConfig carries the wired handlers.
type RouterConfig struct {
	TemplateHandler  *handlers.TemplateHandler
	ToolkitHandler   *handlers.ToolkitHandler
	DashboardHandler *handlers.DashboardHandler
}

// NewRouter builds the REST routing table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/dashboard/stats", cfg.DashboardHandler.Stats)

		// Templates
		api.GET("/templates", cfg.TemplateHandler.List)
		api.POST("/templates", cfg.TemplateHandler.Create)
		api.GET("/templates/:id", cfg.TemplateHandler.Get)
		api.PUT("/templates/:id", cfg.TemplateHandler.Update)
		api.DELETE("/templates/:id", cfg.TemplateHandler.Delete)
		api.POST("/templates/:id/image", cfg.TemplateHandler.UploadImage)
		api.GET("/templates/:id/image", cfg.TemplateHandler.GetImage)
		api.GET("/templates/:id/has-image", cfg.TemplateHandler.HasImage)
		api.GET("/templates/:id/markers", cfg.TemplateHandler.StoredMarkers)
		api.POST("/templates/:id/markers/preview", cfg.TemplateHandler.PreviewMarkers)

		// Toolkits
		api.GET("/toolkits", cfg.ToolkitHandler.List)
		api.POST("/toolkits", cfg.ToolkitHandler.Create)
		api.GET("/toolkits/:id", cfg.ToolkitHandler.Get)
		api.PUT("/toolkits/:id", cfg.ToolkitHandler.Update)
		api.DELETE("/toolkits/:id", cfg.ToolkitHandler.Delete)
		api.POST("/toolkits/:id/checkin", cfg.ToolkitHandler.CheckIn)
		api.POST("/toolkits/:id/checkout", cfg.ToolkitHandler.CheckOut)
		api.GET("/toolkits/:id/history", cfg.ToolkitHandler.History)
	}

	return router
}
