// Package memstore is an in-memory store.Store for tests and local runs.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store"
)

type state struct {
	sessions    map[string]model.IdeaSession
	recipes     map[string]model.GeneratedRecipe
	ingredients map[string][]model.Ingredient
	steps       map[string][]model.Step
}

func newState() state {
	return state{
		sessions:    make(map[string]model.IdeaSession),
		recipes:     make(map[string]model.GeneratedRecipe),
		ingredients: make(map[string][]model.Ingredient),
		steps:       make(map[string][]model.Step),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.recipes {
		c.recipes[k] = v
	}
	for k, v := range s.ingredients {
		c.ingredients[k] = append([]model.Ingredient(nil), v...)
	}
	for k, v := range s.steps {
		c.steps[k] = append([]model.Step(nil), v...)
	}
	return c
}

// Store keeps rows in maps guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	state state

	// Fail, when set, is consulted before every mutation. A non-nil return
	// aborts the call. Tests use it to inject store failures.
	Fail func(op string) error
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{state: newState()}
}

func (s *Store) check(op string) error {
	if s.Fail != nil {
		return s.Fail(op)
	}
	return nil
}

func (s *Store) CreateSession(_ context.Context, session *model.IdeaSession) error {
	if err := s.check("CreateSession"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetSession(_ context.Context, id, userID string) (*model.IdeaSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.state.sessions[id]
	if !ok || session.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &session, nil
}

func (s *Store) UpdateSession(_ context.Context, id, userID string, patch model.SessionPatch) error {
	if err := s.check("UpdateSession"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.state.sessions[id]
	if !ok || session.UserID != userID {
		return nil
	}
	patch.Apply(&session)
	s.state.sessions[id] = session
	return nil
}

func (s *Store) ListSessions(_ context.Context, userID string, page store.Page) ([]model.IdeaSession, error) {
	s.mu.RLock()
	var rows []model.IdeaSession
	for _, session := range s.state.sessions {
		if session.UserID == userID {
			rows = append(rows, session)
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	return paginate(rows, page), nil
}

func (s *Store) CreateRecipe(_ context.Context, r *model.GeneratedRecipe) error {
	if err := s.check("CreateRecipe"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row := *r
	row.Ingredients, row.Steps, row.Session = nil, nil, nil
	s.state.recipes[r.ID] = row
	return nil
}

func (s *Store) GetRecipe(_ context.Context, id, userID string) (*model.GeneratedRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipe, ok := s.state.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &recipe, nil
}

func (s *Store) UpdateRecipe(_ context.Context, id, userID string, patch model.RecipePatch) error {
	if err := s.check("UpdateRecipe"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe, ok := s.state.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil
	}
	patch.Apply(&recipe)
	s.state.recipes[id] = recipe
	return nil
}

func (s *Store) ListRecipes(_ context.Context, filter store.RecipeFilter, page store.Page) ([]model.GeneratedRecipe, error) {
	s.mu.RLock()
	var rows []model.GeneratedRecipe
	for _, r := range s.state.recipes {
		if r.UserID != filter.UserID {
			continue
		}
		if filter.SessionID != "" && (r.SessionID == nil || *r.SessionID != filter.SessionID) {
			continue
		}
		if filter.FavoritesOnly && !r.IsFavorite {
			continue
		}
		rows = append(rows, r)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	return paginate(rows, page), nil
}

func (s *Store) ReplaceIngredients(_ context.Context, recipeID string, items []model.Ingredient) error {
	if err := s.check("ReplaceIngredients"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.state.ingredients, recipeID)
		return nil
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if takenIDs(s.state.ingredients, recipeID, ids, func(i model.Ingredient) string { return i.ID }) {
		return store.ErrConflict
	}
	s.state.ingredients[recipeID] = append([]model.Ingredient(nil), items...)
	return nil
}

func (s *Store) ReplaceSteps(_ context.Context, recipeID string, items []model.Step) error {
	if err := s.check("ReplaceSteps"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.state.steps, recipeID)
		return nil
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if takenIDs(s.state.steps, recipeID, ids, func(st model.Step) string { return st.ID }) {
		return store.ErrConflict
	}
	s.state.steps[recipeID] = append([]model.Step(nil), items...)
	return nil
}

func (s *Store) ListIngredients(_ context.Context, recipeID string) ([]model.Ingredient, error) {
	s.mu.RLock()
	items := append([]model.Ingredient(nil), s.state.ingredients[recipeID]...)
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].OrderIndex, items[j].OrderIndex
		switch {
		case a == nil && b != nil:
			return false
		case a != nil && b == nil:
			return true
		case a != nil && *a != *b:
			return *a < *b
		case !items[i].CreatedAt.Equal(items[j].CreatedAt):
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		default:
			return items[i].ID < items[j].ID
		}
	})
	return items, nil
}

func (s *Store) ListSteps(_ context.Context, recipeID string) ([]model.Step, error) {
	s.mu.RLock()
	items := append([]model.Step(nil), s.state.steps[recipeID]...)
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].OrderIndex != items[j].OrderIndex {
			return items[i].OrderIndex < items[j].OrderIndex
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// WithinTx serialises transactions and restores a snapshot when fn fails.
// Reads from outside the transaction may observe intermediate writes.
func (s *Store) WithinTx(_ context.Context, fn func(tx store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ingredients returns the stored ingredients of a recipe in insertion order.
func (s *Store) Ingredients(recipeID string) []model.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Ingredient(nil), s.state.ingredients[recipeID]...)
}

// Steps returns the stored steps of a recipe in insertion order.
func (s *Store) Steps(recipeID string) []model.Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Step(nil), s.state.steps[recipeID]...)
}

// takenIDs reports whether ids repeat or already belong to a recipe other
// than recipeID. Child ids are primary keys shared by every recipe.
func takenIDs[T any](byRecipe map[string][]T, recipeID string, ids []string, idOf func(T) string) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	for owner, rows := range byRecipe {
		if owner == recipeID {
			continue
		}
		for _, row := range rows {
			if seen[idOf(row)] {
				return true
			}
		}
	}
	return false
}

func paginate[T any](rows []T, page store.Page) []T {
	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[page.Offset:]
	if page.Limit > 0 && page.Limit < len(rows) {
		rows = rows[:page.Limit]
	}
	return rows
}
