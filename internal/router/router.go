package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
)

// Options controls the optional parts of the middleware chain
type Options struct {
	CORSOrigins []string
	// Limiter guards the recipe routes; nil disables rate limiting
	Limiter middleware.Limiter
	// RequestLogging enables gin's access log
	RequestLogging bool
}

// SetupRouter configures the application routes
func SetupRouter(recipeService service.IRecipeService, opts Options) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	if opts.RequestLogging {
		router.Use(gin.Logger())
	}
	router.Use(middleware.Recovery(), middleware.Metrics())
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORS(opts.CORSOrigins))
	}

	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var recipeMiddleware []gin.HandlerFunc
	if opts.Limiter != nil {
		recipeMiddleware = append(recipeMiddleware, middleware.RateLimit(opts.Limiter))
	}
	api.SetupAPI(router, recipeService, recipeMiddleware...)

	return router
}
