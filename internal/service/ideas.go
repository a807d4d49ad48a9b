package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/auth"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

// IdeaService implements the idea session and generated recipe operations.
type IdeaService struct {
	store store.Store
	newID func() string
	now   func() time.Time
	log   zerolog.Logger
}

// Option configures an IdeaService.
type Option func(*IdeaService)

// WithIDGenerator replaces uuid.NewString as the id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *IdeaService) { s.newID = fn }
}

// WithClock replaces the wall clock used for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *IdeaService) { s.now = fn }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *IdeaService) { s.log = log }
}

// NewIdeaService creates a new IdeaService instance
func NewIdeaService(st store.Store, opts ...Option) *IdeaService {
	s := &IdeaService{
		store: st,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession stores a new idea session owned by the caller.
func (s *IdeaService) CreateSession(ctx context.Context, req *types.CreateSessionRequest) (*types.IDResponse, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &model.IdeaSession{
		ID:                s.newID(),
		UserID:            user.ID,
		Title:             req.Title,
		Prompt:            req.Prompt,
		CuisinePreference: req.CuisinePreference,
		DietaryPreference: req.DietaryPreference,
		ServingCount:      req.ServingCount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create idea session: %w", err)
	}

	s.log.Debug().Str("user_id", user.ID).Str("session_id", session.ID).Msg("Created idea session")
	return &types.IDResponse{ID: session.ID}, nil
}

// UpdateSession applies the fields present in req to the caller's session.
func (s *IdeaService) UpdateSession(ctx context.Context, req *types.UpdateSessionRequest) (*types.IDResponse, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetSession(ctx, req.ID, user.ID); err != nil {
		return nil, lookupError(err, "idea session not found", "failed to load idea session")
	}

	patch := model.SessionPatch{
		Title:             req.Title,
		Prompt:            req.Prompt,
		CuisinePreference: req.CuisinePreference,
		DietaryPreference: req.DietaryPreference,
		ServingCount:      req.ServingCount,
		UpdatedAt:         s.now(),
	}
	if err := s.store.UpdateSession(ctx, req.ID, user.ID, patch); err != nil {
		return nil, fmt.Errorf("failed to update idea session: %w", err)
	}
	return &types.IDResponse{ID: req.ID}, nil
}

// ListSessions returns one page of the caller's sessions, oldest first.
func (s *IdeaService) ListSessions(ctx context.Context, req *types.ListSessionsRequest) (*types.SessionPage, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	page := req.PageRequest
	page.Normalize()
	sessions, err := s.store.ListSessions(ctx, user.ID, store.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, fmt.Errorf("failed to list idea sessions: %w", err)
	}
	return types.NewPage(sessions, page), nil
}

// GetSession returns one of the caller's sessions.
func (s *IdeaService) GetSession(ctx context.Context, id string) (*model.IdeaSession, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx, id, user.ID)
	if err != nil {
		return nil, lookupError(err, "idea session not found", "failed to load idea session")
	}
	return session, nil
}

// UpsertRecipe creates a recipe when req.ID is nil and otherwise updates
// the caller's existing recipe. Ingredient and step sets are replaced only
// when the request carries them.
func (s *IdeaService) UpsertRecipe(ctx context.Context, req *types.UpsertRecipeRequest) (*types.IDResponse, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := duplicateChildIDs(req); err != nil {
		return nil, err
	}
	if req.SessionID.Present() {
		if _, err := s.store.GetSession(ctx, req.SessionID.Value, user.ID); err != nil {
			return nil, lookupError(err, "idea session not found", "failed to load idea session")
		}
	}

	now := s.now()
	var recipeID string
	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		if req.ID != nil {
			recipeID = *req.ID
			if _, err := tx.GetRecipe(ctx, recipeID, user.ID); err != nil {
				return lookupError(err, "generated recipe not found", "failed to load generated recipe")
			}
			if err := tx.UpdateRecipe(ctx, recipeID, user.ID, recipePatch(req, now)); err != nil {
				return fmt.Errorf("failed to update generated recipe: %w", err)
			}
		} else {
			recipeID = s.newID()
			if err := tx.CreateRecipe(ctx, s.newRecipe(recipeID, user.ID, req, now)); err != nil {
				return fmt.Errorf("failed to create generated recipe: %w", err)
			}
		}

		if req.Ingredients != nil {
			if err := tx.ReplaceIngredients(ctx, recipeID, s.ingredients(recipeID, req.Ingredients, now)); err != nil {
				return childError(err, "ingredients", "failed to replace ingredients")
			}
		}
		if req.Steps != nil {
			if err := tx.ReplaceSteps(ctx, recipeID, s.steps(recipeID, req.Steps, now)); err != nil {
				return childError(err, "steps", "failed to replace steps")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("user_id", user.ID).
		Str("recipe_id", recipeID).
		Bool("created", req.ID == nil).
		Msg("Upserted generated recipe")
	return &types.IDResponse{ID: recipeID}, nil
}

// ListRecipes returns one page of the caller's recipes, oldest first.
func (s *IdeaService) ListRecipes(ctx context.Context, req *types.ListRecipesRequest) (*types.RecipePage, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	page := req.PageRequest
	page.Normalize()
	filter := store.RecipeFilter{
		UserID:        user.ID,
		SessionID:     req.SessionID,
		FavoritesOnly: req.FavoritesOnly,
	}
	recipes, err := s.store.ListRecipes(ctx, filter, store.Page{Limit: page.PageSize, Offset: page.Offset()})
	if err != nil {
		return nil, fmt.Errorf("failed to list generated recipes: %w", err)
	}
	return types.NewPage(recipes, page), nil
}

// GetRecipe returns one of the caller's recipes with its ingredients and steps.
func (s *IdeaService) GetRecipe(ctx context.Context, id string) (*model.GeneratedRecipe, error) {
	user, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.store.GetRecipe(ctx, id, user.ID)
	if err != nil {
		return nil, lookupError(err, "generated recipe not found", "failed to load generated recipe")
	}

	if recipe.Ingredients, err = s.store.ListIngredients(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}
	if recipe.Steps, err = s.store.ListSteps(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []model.Ingredient{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []model.Step{}
	}
	return recipe, nil
}

func (s *IdeaService) newRecipe(id, userID string, req *types.UpsertRecipeRequest, now time.Time) *model.GeneratedRecipe {
	r := &model.GeneratedRecipe{
		ID:              id,
		SessionID:       req.SessionID.Ptr(),
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		Cuisine:         req.Cuisine,
		MealType:        req.MealType,
		Tags:            req.Tags,
		Servings:        req.Servings,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IsFavorite != nil {
		r.IsFavorite = *req.IsFavorite
	}
	return r
}

func recipePatch(req *types.UpsertRecipeRequest, now time.Time) model.RecipePatch {
	patch := model.RecipePatch{
		Title:           req.Title,
		Description:     req.Description,
		Cuisine:         req.Cuisine,
		MealType:        req.MealType,
		Tags:            req.Tags,
		Servings:        req.Servings,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Notes:           req.Notes,
		SessionID:       req.SessionID,
		UpdatedAt:       now,
	}
	if req.IsFavorite != nil {
		patch.IsFavorite = model.Some(*req.IsFavorite)
	}
	return patch
}

func (s *IdeaService) ingredients(recipeID string, in []types.IngredientInput, now time.Time) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(in))
	for _, ing := range in {
		out = append(out, model.Ingredient{
			ID:         s.idOrNew(ing.ID),
			RecipeID:   recipeID,
			OrderIndex: ing.OrderIndex,
			Name:       ing.Name,
			Quantity:   ing.Quantity,
			Notes:      ing.Notes,
			CreatedAt:  now,
		})
	}
	return out
}

func (s *IdeaService) steps(recipeID string, in []types.StepInput, now time.Time) []model.Step {
	out := make([]model.Step, 0, len(in))
	for _, st := range in {
		out = append(out, model.Step{
			ID:          s.idOrNew(st.ID),
			RecipeID:    recipeID,
			OrderIndex:  st.OrderIndex,
			Instruction: st.Instruction,
			Tip:         st.Tip,
			CreatedAt:   now,
		})
	}
	return out
}

func (s *IdeaService) idOrNew(id *string) string {
	if id != nil && *id != "" {
		return *id
	}
	return s.newID()
}

// duplicateChildIDs rejects an ingredient or step id given twice in one request.
func duplicateChildIDs(req *types.UpsertRecipeRequest) error {
	var fields []apperr.FieldError
	check := func(list string, ids []*string) {
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			if id == nil || *id == "" {
				continue
			}
			if seen[*id] {
				fields = append(fields, apperr.FieldError{
					Path:    fmt.Sprintf("%s[%d].id", list, i),
					Message: "must be unique",
				})
			}
			seen[*id] = true
		}
	}

	ingredientIDs := make([]*string, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredientIDs[i] = ing.ID
	}
	check("ingredients", ingredientIDs)

	stepIDs := make([]*string, len(req.Steps))
	for i, st := range req.Steps {
		stepIDs[i] = st.ID
	}
	check("steps", stepIDs)

	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// childError reports a child id already used elsewhere as a validation
// failure on list, without saying where it is used.
func childError(err error, list, failure string) error {
	if errors.Is(err, store.ErrConflict) {
		return apperr.Validation(apperr.FieldError{Path: list, Message: "contains an id that is already in use"})
	}
	return fmt.Errorf("%s: %w", failure, err)
}

// lookupError maps a missing row onto NotFound and wraps anything else.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(notFound)
	}
	return fmt.Errorf("%s: %w", failure, err)
}
