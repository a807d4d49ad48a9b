// Package storetest is a conformance suite shared by store.Store implementations.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/store"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// Run exercises newStore against the behaviour the idea service relies on.
// newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("SessionOwnership", func(t *testing.T) { testSessionOwnership(t, newStore(t)) })
	t.Run("SessionPatch", func(t *testing.T) { testSessionPatch(t, newStore(t)) })
	t.Run("ListSessionsPagination", func(t *testing.T) { testListSessions(t, newStore(t)) })
	t.Run("RecipeUpdate", func(t *testing.T) { testRecipeUpdate(t, newStore(t)) })
	t.Run("ListRecipesFilters", func(t *testing.T) { testListRecipes(t, newStore(t)) })
	t.Run("ReplaceChildren", func(t *testing.T) { testReplaceChildren(t, newStore(t)) })
	t.Run("ChildIDConflict", func(t *testing.T) { testChildIDConflict(t, newStore(t)) })
	t.Run("TransactionRollback", func(t *testing.T) { testTransactionRollback(t, newStore(t)) })
}

func session(id, userID string, created time.Time) *model.IdeaSession {
	return &model.IdeaSession{ID: id, UserID: userID, CreatedAt: created, UpdatedAt: created}
}

func recipe(id, userID string, created time.Time) *model.GeneratedRecipe {
	return &model.GeneratedRecipe{ID: id, UserID: userID, Title: "Recipe " + id, CreatedAt: created, UpdatedAt: created}
}

func testSessionOwnership(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.CreateSession(ctx, session("s1", "alice", base)))

	got, err := st.GetSession(ctx, "s1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserID)

	_, err = st.GetSession(ctx, "s1", "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.GetSession(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// An update scoped to the wrong owner matches nothing.
	require.NoError(t, st.UpdateSession(ctx, "s1", "bob", model.SessionPatch{
		Title:     model.Some("hijacked"),
		UpdatedAt: base.Add(time.Hour),
	}))
	got, err = st.GetSession(ctx, "s1", "alice")
	require.NoError(t, err)
	assert.Nil(t, got.Title)
}

func testSessionPatch(t *testing.T, st store.Store) {
	ctx := context.Background()
	s := session("s1", "alice", base)
	s.Title = strPtr("Quick dinners")
	s.Prompt = strPtr("30 minutes max")
	s.ServingCount = intPtr(2)
	require.NoError(t, st.CreateSession(ctx, s))

	later := base.Add(time.Hour)
	require.NoError(t, st.UpdateSession(ctx, "s1", "alice", model.SessionPatch{
		Title:             model.Some("Slow dinners"),
		CuisinePreference: model.Some("thai"),
		ServingCount:      model.Null[int](),
		UpdatedAt:         later,
	}))

	got, err := st.GetSession(ctx, "s1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Slow dinners", *got.Title)
	assert.Equal(t, "30 minutes max", *got.Prompt)
	assert.Equal(t, "thai", *got.CuisinePreference)
	assert.Nil(t, got.DietaryPreference)
	assert.Nil(t, got.ServingCount)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.True(t, got.CreatedAt.Equal(base))
}

func testListSessions(t *testing.T, st store.Store) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, st.CreateSession(ctx, session(fmt.Sprintf("s%d", i), "alice", base.Add(time.Duration(4-i)*time.Minute))))
	}
	require.NoError(t, st.CreateSession(ctx, session("other", "bob", base)))

	all, err := st.ListSessions(ctx, "alice", store.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, []string{"s4", "s3", "s2", "s1", "s0"}, sessionIDs(all))

	page, err := st.ListSessions(ctx, "alice", store.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, sessionIDs(page))

	empty, err := st.ListSessions(ctx, "alice", store.Page{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	far, err := st.ListSessions(ctx, "alice", store.Page{Limit: 2, Offset: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, far)

	negative, err := st.ListSessions(ctx, "alice", store.Page{Limit: 2, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, []string{"s4", "s3"}, sessionIDs(negative))
}

func testRecipeUpdate(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.CreateSession(ctx, session("s1", "alice", base)))
	r := recipe("r1", "alice", base)
	r.SessionID = strPtr("s1")
	r.Description = strPtr("creamy")
	r.Servings = intPtr(4)
	require.NoError(t, st.CreateRecipe(ctx, r))

	got, err := st.GetRecipe(ctx, "r1", "alice")
	require.NoError(t, err)
	assert.False(t, got.IsFavorite)
	assert.Equal(t, "creamy", *got.Description)

	_, err = st.GetRecipe(ctx, "r1", "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.UpdateRecipe(ctx, "r1", "alice", model.RecipePatch{
		Title:      "Pasta",
		Cuisine:    strPtr("italian"),
		IsFavorite: model.Some(true),
		UpdatedAt:  base.Add(time.Hour),
	}))

	got, err = st.GetRecipe(ctx, "r1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Title)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Servings)
	assert.Equal(t, "italian", *got.Cuisine)
	assert.True(t, got.IsFavorite)
	require.NotNil(t, got.SessionID)
	assert.Equal(t, "s1", *got.SessionID)
}

func testListRecipes(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.CreateSession(ctx, session("s1", "alice", base)))
	for i := 0; i < 6; i++ {
		r := recipe(fmt.Sprintf("r%d", i), "alice", base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			r.SessionID = strPtr("s1")
		}
		r.IsFavorite = i >= 3
		require.NoError(t, st.CreateRecipe(ctx, r))
	}
	require.NoError(t, st.CreateRecipe(ctx, recipe("bob-r", "bob", base)))

	all, err := st.ListRecipes(ctx, store.RecipeFilter{UserID: "alice"}, store.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4", "r5"}, recipeIDs(all))

	bySession, err := st.ListRecipes(ctx, store.RecipeFilter{UserID: "alice", SessionID: "s1"}, store.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r2", "r4"}, recipeIDs(bySession))

	favs, err := st.ListRecipes(ctx, store.RecipeFilter{UserID: "alice", FavoritesOnly: true}, store.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r4", "r5"}, recipeIDs(favs))

	both, err := st.ListRecipes(ctx, store.RecipeFilter{UserID: "alice", SessionID: "s1", FavoritesOnly: true}, store.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4"}, recipeIDs(both))

	paged, err := st.ListRecipes(ctx, store.RecipeFilter{UserID: "alice"}, store.Page{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r5"}, recipeIDs(paged))
}

func testReplaceChildren(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.CreateRecipe(ctx, recipe("r1", "alice", base)))

	require.NoError(t, st.ReplaceIngredients(ctx, "r1", []model.Ingredient{
		{ID: "i5", RecipeID: "r1", Name: "Jam", CreatedAt: base},
		{ID: "i1", RecipeID: "r1", OrderIndex: intPtr(1), Name: "Salt", CreatedAt: base},
		{ID: "i4", RecipeID: "r1", Name: "Honey", CreatedAt: base.Add(-time.Minute)},
		{ID: "i3", RecipeID: "r1", OrderIndex: intPtr(2), Name: "Oil", CreatedAt: base},
		{ID: "i0", RecipeID: "r1", OrderIndex: intPtr(0), Name: "Pasta", CreatedAt: base},
		{ID: "i2", RecipeID: "r1", OrderIndex: intPtr(2), Name: "Butter", CreatedAt: base},
	}))
	require.NoError(t, st.ReplaceSteps(ctx, "r1", []model.Step{
		{ID: "st2", RecipeID: "r1", OrderIndex: 2, Instruction: "Cook pasta", CreatedAt: base},
		{ID: "st1b", RecipeID: "r1", OrderIndex: 1, Instruction: "Salt water", CreatedAt: base},
		{ID: "st1a", RecipeID: "r1", OrderIndex: 1, Instruction: "Boil water", CreatedAt: base},
	}))

	ingredients, err := st.ListIngredients(ctx, "r1")
	require.NoError(t, err)
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = ing.Name
	}
	// Indexed rows first, ties by creation time then id, unindexed rows last.
	assert.Equal(t, []string{"Pasta", "Salt", "Butter", "Oil", "Honey", "Jam"}, names)

	steps, err := st.ListSteps(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "Boil water", steps[0].Instruction)
	assert.Equal(t, "Salt water", steps[1].Instruction)
	assert.Equal(t, "Cook pasta", steps[2].Instruction)

	require.NoError(t, st.ReplaceIngredients(ctx, "r1", []model.Ingredient{
		{ID: "i9", RecipeID: "r1", Name: "Butter", CreatedAt: base},
	}))
	ingredients, err = st.ListIngredients(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Butter", ingredients[0].Name)

	require.NoError(t, st.ReplaceIngredients(ctx, "r1", []model.Ingredient{}))
	ingredients, err = st.ListIngredients(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, ingredients)

	steps, err = st.ListSteps(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, steps, 3)
}

func testChildIDConflict(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.CreateRecipe(ctx, recipe("r1", "alice", base)))
	require.NoError(t, st.CreateRecipe(ctx, recipe("r2", "bob", base)))

	require.NoError(t, st.ReplaceIngredients(ctx, "r1", []model.Ingredient{
		{ID: "i1", RecipeID: "r1", Name: "Salt", CreatedAt: base},
	}))
	require.NoError(t, st.ReplaceSteps(ctx, "r1", []model.Step{
		{ID: "st1", RecipeID: "r1", OrderIndex: 1, Instruction: "Boil water", CreatedAt: base},
	}))

	// Resubmitting a recipe's own ids replaces them.
	require.NoError(t, st.ReplaceIngredients(ctx, "r1", []model.Ingredient{
		{ID: "i1", RecipeID: "r1", Name: "Pepper", CreatedAt: base},
	}))

	err := st.ReplaceIngredients(ctx, "r2", []model.Ingredient{
		{ID: "i1", RecipeID: "r2", Name: "Sugar", CreatedAt: base},
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	err = st.ReplaceSteps(ctx, "r2", []model.Step{
		{ID: "st1", RecipeID: "r2", OrderIndex: 1, Instruction: "Preheat", CreatedAt: base},
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	ingredients, err := st.ListIngredients(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Pepper", ingredients[0].Name)
}

func testTransactionRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.CreateRecipe(ctx, recipe("r1", "alice", base)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = st.GetRecipe(ctx, "r1", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = st.WithinTx(ctx, func(tx store.Store) error {
		return tx.CreateRecipe(ctx, recipe("r2", "alice", base))
	})
	require.NoError(t, err)
	_, err = st.GetRecipe(ctx, "r2", "alice")
	assert.NoError(t, err)
}

func sessionIDs(rows []model.IdeaSession) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func recipeIDs(rows []model.GeneratedRecipe) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
