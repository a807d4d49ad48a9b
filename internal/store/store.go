// Package store defines the data-access port used by the idea service.
// Every session and recipe operation is scoped by the owning user id.
package store

import (
	"context"
	"errors"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
)

// ErrNotFound is returned when no row matches the id and owner.
var ErrNotFound = errors.New("store: record not found")

// ErrConflict is returned when an insert reuses an existing primary key.
var ErrConflict = errors.New("store: duplicate key")

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

// RecipeFilter narrows ListRecipes. Empty SessionID matches any session.
type RecipeFilter struct {
	UserID        string
	SessionID     string
	FavoritesOnly bool
}

// Store is implemented by gormstore (postgres, sqlite) and memstore (tests).
type Store interface {
	CreateSession(ctx context.Context, s *model.IdeaSession) error
	GetSession(ctx context.Context, id, userID string) (*model.IdeaSession, error)
	UpdateSession(ctx context.Context, id, userID string, patch model.SessionPatch) error
	ListSessions(ctx context.Context, userID string, page Page) ([]model.IdeaSession, error)

	CreateRecipe(ctx context.Context, r *model.GeneratedRecipe) error
	GetRecipe(ctx context.Context, id, userID string) (*model.GeneratedRecipe, error)
	UpdateRecipe(ctx context.Context, id, userID string, patch model.RecipePatch) error
	ListRecipes(ctx context.Context, filter RecipeFilter, page Page) ([]model.GeneratedRecipe, error)

	ReplaceIngredients(ctx context.Context, recipeID string, items []model.Ingredient) error
	ReplaceSteps(ctx context.Context, recipeID string, items []model.Step) error
	// ListIngredients orders by order index with unindexed rows last, then
	// by creation time and id.
	ListIngredients(ctx context.Context, recipeID string) ([]model.Ingredient, error)
	// ListSteps orders by order index, then id.
	ListSteps(ctx context.Context, recipeID string) ([]model.Step, error)

	// WithinTx runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls the transaction back.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
