// Package gormstore implements store.Store on gorm for postgres and sqlite.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store"
)

// Store is a gorm-backed store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSession(ctx context.Context, session *model.IdeaSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *Store) GetSession(ctx context.Context, id, userID string) (*model.IdeaSession, error) {
	var session model.IdeaSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *Store) UpdateSession(ctx context.Context, id, userID string, patch model.SessionPatch) error {
	return s.db.WithContext(ctx).
		Model(&model.IdeaSession{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(patch.Columns()).Error
}

func (s *Store) ListSessions(ctx context.Context, userID string, page store.Page) ([]model.IdeaSession, error) {
	var sessions []model.IdeaSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *Store) CreateRecipe(ctx context.Context, r *model.GeneratedRecipe) error {
	return s.db.WithContext(ctx).Omit("Ingredients", "Steps", "Session").Create(r).Error
}

func (s *Store) GetRecipe(ctx context.Context, id, userID string) (*model.GeneratedRecipe, error) {
	var recipe model.GeneratedRecipe
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&recipe).Error
	if err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (s *Store) UpdateRecipe(ctx context.Context, id, userID string, patch model.RecipePatch) error {
	return s.db.WithContext(ctx).
		Model(&model.GeneratedRecipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(patch.Columns()).Error
}

func (s *Store) ListRecipes(ctx context.Context, filter store.RecipeFilter, page store.Page) ([]model.GeneratedRecipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}

	var recipes []model.GeneratedRecipe
	err := query.
		Order("created_at ASC").Order("id ASC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Store) ReplaceIngredients(ctx context.Context, recipeID string, items []model.Ingredient) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&model.Ingredient{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return translate(db.Create(&items).Error)
}

func (s *Store) ReplaceSteps(ctx context.Context, recipeID string, items []model.Step) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&model.Step{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return translate(db.Create(&items).Error)
}

func (s *Store) ListIngredients(ctx context.Context, recipeID string) ([]model.Ingredient, error) {
	var items []model.Ingredient
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("order_index IS NULL").Order("order_index ASC").Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListSteps(ctx context.Context, recipeID string) ([]model.Step, error) {
	var items []model.Step
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("order_index ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	}
	return err
}
