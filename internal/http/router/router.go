// Package router assembles the Gin engine: middleware chain, health check
// and per-module route registration.
package router

import (
	"net/http"
	"time"

	apphttp "offerdesk_backend/internal/http"
	"offerdesk_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the Gin engine from the initialized application.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(app))

	engine.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if app.Health != nil {
			if err := app.Health.Ping(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				dbStatus = "unreachable"
			}
		}
		c.JSON(status, gin.H{"status": dbStatus})
	})

	publicLimiter := httpkit.NewRateLimiter(
		app.Config.GetPublicRateLimit(),
		app.Config.GetPublicRateBurst(),
		app.Logger,
	)

	ctx := &apphttp.RouterContext{
		Engine: engine,
		Public: engine.Group("/api", publicLimiter.Middleware()),
		Admin:  engine.Group("/admin", httpkit.AdminKey(app.Config.GetAdminKey())),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

// corsMiddleware builds the CORS policy. The public submit endpoint is
// called cross-origin from storefronts, so by default any origin is
// allowed; a fixed origin list can be configured instead.
func corsMiddleware(app *apphttp.App) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if origins := app.Config.GetCORSOrigins(); !app.Config.GetCORSAllowAll() && len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}
