package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/types"
)

// maxIDAttempts bounds retries when a freshly minted id collides
const maxIDAttempts = 3

// RecipeService handles recipe operations
type RecipeService struct {
	store store.Store
	newID func() string
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(s store.Store) *RecipeService {
	return &RecipeService{
		store: s,
		newID: func() string { return uuid.New().String() },
	}
}

// ListRecipes returns every recipe in insertion order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	recipes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (types.Recipe, error) {
	return s.store.Get(ctx, id)
}

// CreateRecipe validates the request, mints an id and stores the recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, req *types.CreateRecipeRequest) (types.Recipe, error) {
	if req == nil {
		return types.Recipe{}, &ValidationError{Field: "body", Message: "is required"}
	}
	if err := validateFields(req.Name, req.Ingredients); err != nil {
		return types.Recipe{}, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		recipe, err := s.store.Create(ctx, types.Recipe{
			ID:          s.newID(),
			Name:        req.Name,
			Ingredients: req.Ingredients,
		})
		if errors.Is(err, store.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return types.Recipe{}, err
		}
		log.Printf("Created recipe %s (%q)", recipe.ID, recipe.Name)
		return recipe, nil
	}
	return types.Recipe{}, fmt.Errorf("failed to mint a unique recipe id after %d attempts", maxIDAttempts)
}

// UpdateRecipe replaces the name and ingredients of the recipe identified by id.
// The id in the body must match the path id; on mismatch the store is untouched.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, req *types.UpdateRecipeRequest) (types.Recipe, error) {
	if req == nil {
		return types.Recipe{}, &ValidationError{Field: "body", Message: "is required"}
	}
	if req.ID != id {
		return types.Recipe{}, &ValidationError{
			Field:   "id",
			Message: fmt.Sprintf("request path id (%s) and request body id (%s) must match", id, req.ID),
		}
	}
	if err := validateFields(req.Name, req.Ingredients); err != nil {
		return types.Recipe{}, err
	}

	recipe, err := s.store.Update(ctx, types.Recipe{
		ID:          id,
		Name:        req.Name,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		return types.Recipe{}, err
	}
	log.Printf("Updated recipe %s", recipe.ID)
	return recipe, nil
}

// DeleteRecipe removes a recipe. Deleting an unknown id returns ErrNotFound.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("Deleted recipe %s", id)
	return nil
}

// CountRecipes returns the number of recipes in the store
func (s *RecipeService) CountRecipes(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}

// Seed creates every request in order, going through the same validation
// as client requests
func (s *RecipeService) Seed(ctx context.Context, reqs []types.CreateRecipeRequest) ([]types.Recipe, error) {
	created := make([]types.Recipe, 0, len(reqs))
	for i := range reqs {
		recipe, err := s.CreateRecipe(ctx, &reqs[i])
		if err != nil {
			return created, fmt.Errorf("seed recipe %d: %w", i, err)
		}
		created = append(created, recipe)
	}
	return created, nil
}

func validateFields(name string, ingredients []string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if ingredients == nil {
		return &ValidationError{Field: "ingredients", Message: "is required"}
	}
	return nil
}
