// Package routes defines the HTTP routes for the bot service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/api/handlers"
	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler  *handlers.HealthHandler
	WebhookHandler *handlers.WebhookHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	// Health check routes
	r.GET("/health", cfg.HealthHandler.Health)
	r.GET("/ready", cfg.HealthHandler.Ready)
	r.GET("/live", cfg.HealthHandler.Live)

	// Telegram pushes updates here; the token path segment is the only
	// authentication this endpoint has.
	r.POST("/webhook/:token", cfg.WebhookHandler.Receive)

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	// Apply global middleware
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	// Setup routes
	Setup(r, cfg)
}
