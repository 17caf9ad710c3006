package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
)

// HealthHandler reports liveness along with the number of stored recipes
type HealthHandler struct {
	recipeService service.IRecipeService
}

func NewHealthHandler(recipeService service.IRecipeService) *HealthHandler {
	return &HealthHandler{recipeService: recipeService}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	count, err := h.recipeService.CountRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"recipes": count,
	})
}
