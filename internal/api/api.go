package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
)

// SetupAPI registers the recipe and health routes on router
func SetupAPI(router *gin.Engine, recipeService service.IRecipeService, recipeMiddleware ...gin.HandlerFunc) {
	router.GET("/health", NewHealthHandler(recipeService).HealthCheck)

	recipes := router.Group("", recipeMiddleware...)
	NewRecipeHandler(recipeService).RegisterRoutes(recipes)
}
