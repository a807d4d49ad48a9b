package types

import (
	"math"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1000000
)

// CreateSessionRequest is the body of createRecipeIdeaSession. Every field is optional.
type CreateSessionRequest struct {
	Title             *string `json:"title"`
	Prompt            *string `json:"prompt"`
	CuisinePreference *string `json:"cuisinePreference"`
	DietaryPreference *string `json:"dietaryPreference"`
	ServingCount      *int    `json:"servingCount" binding:"omitempty,gt=0"`
}

// UpdateSessionRequest is the body of updateRecipeIdeaSession. Fields left
// out of the payload are not touched; an explicit null clears the column.
type UpdateSessionRequest struct {
	ID                string                 `json:"id" binding:"required"`
	Title             model.Optional[string] `json:"title"`
	Prompt            model.Optional[string] `json:"prompt"`
	CuisinePreference model.Optional[string] `json:"cuisinePreference"`
	DietaryPreference model.Optional[string] `json:"dietaryPreference"`
	ServingCount      model.Optional[int]    `json:"servingCount" binding:"omitempty,gt=0"`
}

// PageRequest holds offset pagination parameters.
type PageRequest struct {
	Page     int `form:"page,default=1" json:"page" binding:"min=1,max=1000000"`
	PageSize int `form:"pageSize,default=20" json:"pageSize" binding:"min=1,max=100"`
}

// Normalize fills defaults for callers that bypass request binding.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// ListSessionsRequest is the query of listRecipeIdeaSessions.
type ListSessionsRequest struct {
	PageRequest
}

// ListRecipesRequest is the query of listGeneratedRecipes.
type ListRecipesRequest struct {
	PageRequest
	SessionID     string `form:"sessionId" json:"sessionId"`
	FavoritesOnly bool   `form:"favoritesOnly" json:"favoritesOnly"`
}

// IngredientInput is one element of UpsertRecipeRequest.Ingredients.
type IngredientInput struct {
	ID         *string `json:"id" binding:"omitempty,min=1,max=36"`
	OrderIndex *int    `json:"orderIndex" binding:"omitempty,min=0"`
	Name       string  `json:"name" binding:"required,min=1"`
	Quantity   *string `json:"quantity"`
	Notes      *string `json:"notes"`
}

// StepInput is one element of UpsertRecipeRequest.Steps.
type StepInput struct {
	ID          *string `json:"id" binding:"omitempty,min=1,max=36"`
	OrderIndex  int     `json:"orderIndex" binding:"required,min=1"`
	Instruction string  `json:"instruction" binding:"required,min=1"`
	Tip         *string `json:"tip"`
}

// UpsertRecipeRequest is the body of upsertGeneratedRecipe. A nil ID creates
// a recipe. A nil Ingredients or Steps slice leaves the children untouched,
// while an empty one deletes them.
type UpsertRecipeRequest struct {
	ID              *string                `json:"id" binding:"omitempty,min=1,max=36"`
	SessionID       model.Optional[string] `json:"sessionId"`
	Title           string                 `json:"title" binding:"required,min=1"`
	Description     *string                `json:"description"`
	Cuisine         *string                `json:"cuisine"`
	MealType        *string                `json:"mealType"`
	Tags            *string                `json:"tags"`
	Servings        *int                   `json:"servings" binding:"omitempty,gt=0"`
	PrepTimeMinutes *int                   `json:"prepTimeMinutes" binding:"omitempty,min=0"`
	CookTimeMinutes *int                   `json:"cookTimeMinutes" binding:"omitempty,min=0"`
	Notes           *string                `json:"notes"`
	IsFavorite      *bool                  `json:"isFavorite"`
	Ingredients     []IngredientInput      `json:"ingredients" binding:"omitempty,dive"`
	Steps           []StepInput            `json:"steps" binding:"omitempty,dive"`
}
