package service

import (
	"context"

	"github.com/pageza/recipebox/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context) ([]types.Recipe, error)
	GetRecipe(ctx context.Context, id string) (types.Recipe, error)
	CreateRecipe(ctx context.Context, req *types.CreateRecipeRequest) (types.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, req *types.UpdateRecipeRequest) (types.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	CountRecipes(ctx context.Context) (int, error)
}
