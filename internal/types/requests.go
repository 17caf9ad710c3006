package types

// CreateRecipeRequest represents the request body for creating a recipe.
// Ingredients must be present but may be an empty list.
type CreateRecipeRequest struct {
	Name        string   `json:"name" yaml:"name" binding:"required"`
	Ingredients []string `json:"ingredients" yaml:"ingredients" binding:"required"`
}

// UpdateRecipeRequest represents the request body for replacing a recipe
type UpdateRecipeRequest struct {
	ID          string   `json:"id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Ingredients []string `json:"ingredients" binding:"required"`
}

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
