package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"assettracker/internal/core/container"
	"assettracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(
		middleware.RecoveryMiddleware(c.Logger),
		middleware.RequestLogger(c.Logger),
		middleware.CORS(c.Config.AllowedOrigins),
		middleware.TimeoutMiddleware(c.Config.RequestTimeout),
	)

	RegisterUtilityRoutes(router, c)
	RegisterPublicRoutes(router, c)
	RegisterFrontendRoutes(router, c.Config.FrontendDir, c.Logger)

	return router
}

func RegisterPublicRoutes(router *gin.Engine, c *container.Container) {
	api := router.Group("")
	if c.RateLimiter != nil {
		api.Use(middleware.RateLimit(c.RateLimiter, c.Logger))
	}

	c.AssetHandler.RegisterRoutes(api)
}

func RegisterUtilityRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/health", c.Health.HealthCheckMiddleware())
}

// RegisterFrontendRoutes serves the built single page app from dir. Paths that
// are not files fall back to index.html so client side routing works; unknown
// /api paths still answer 404.
func RegisterFrontendRoutes(router *gin.Engine, dir string, logger *zap.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("Frontend build not found, serving API only", zap.String("dir", dir))
		router.NoRoute(notFound)
		return
	}

	logger.Info("Serving frontend", zap.String("dir", dir))
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
			notFound(c)
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		c.File(index)
	})
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
}
