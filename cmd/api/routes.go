package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	app.router.GET("/ping", app.handlePing)

	v1 := app.router.Group("/api/v1")

	// Place category tables
	v1.GET("/place-types", app.handleListPlaceTypes)

	// Unlock sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", app.limiter.middleware(), app.handleCreateSession)
	sessions.GET("/:id", app.handleGetSession)
	sessions.POST("/:id/activate", app.limiter.middleware(), app.handleActivate)
	sessions.POST("/:id/position", app.limiter.middleware(), app.handleReportPosition)
	sessions.POST("/:id/dismiss", app.handleDismiss)
	sessions.POST("/:id/overlay", app.handleReopenOverlay)
	sessions.GET("/:id/guides", app.handleGetGuides)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(301, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}
