package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalUnmarshal(t *testing.T) {
	var payload struct {
		Title  Optional[string] `json:"title"`
		Prompt Optional[string] `json:"prompt"`
		Count  Optional[int]    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Soup","prompt":null}`), &payload))

	assert.True(t, payload.Title.Present())
	assert.Equal(t, "Soup", payload.Title.Value)

	assert.True(t, payload.Prompt.Set)
	assert.True(t, payload.Prompt.Null)
	assert.Nil(t, payload.Prompt.Ptr())

	assert.False(t, payload.Count.Set)
	assert.Nil(t, payload.Count.Ptr())
}

func TestOptionalUnmarshalTypeMismatch(t *testing.T) {
	var payload struct {
		Count Optional[int] `json:"count"`
	}
	err := json.Unmarshal([]byte(`{"count":"four"}`), &payload)
	assert.Error(t, err)
}

func TestSessionPatchOnlyTouchesPresentFields(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt := "weeknight"
	servings := 4
	s := &IdeaSession{ID: "s1", Prompt: &prompt, ServingCount: &servings}

	patch := SessionPatch{
		Title:             Some("Quick dinners"),
		CuisinePreference: Null[string](),
		UpdatedAt:         now,
	}
	patch.Apply(s)

	require.NotNil(t, s.Title)
	assert.Equal(t, "Quick dinners", *s.Title)
	assert.Equal(t, "weeknight", *s.Prompt)
	assert.Equal(t, 4, *s.ServingCount)
	assert.Nil(t, s.CuisinePreference)
	assert.Equal(t, now, s.UpdatedAt)

	cols := patch.Columns()
	assert.Equal(t, map[string]interface{}{
		"title":              "Quick dinners",
		"cuisine_preference": nil,
		"updated_at":         now,
	}, cols)
}

func TestRecipePatchOverwritesDescriptiveFields(t *testing.T) {
	desc := "old"
	session := "s1"
	r := &GeneratedRecipe{ID: "r1", Title: "Old", Description: &desc, SessionID: &session, IsFavorite: true}

	patch := RecipePatch{Title: "New", UpdatedAt: time.Unix(10, 0)}
	patch.Apply(r)

	assert.Equal(t, "New", r.Title)
	assert.Nil(t, r.Description)
	require.NotNil(t, r.SessionID)
	assert.Equal(t, "s1", *r.SessionID)
	assert.True(t, r.IsFavorite)

	cols := patch.Columns()
	assert.Contains(t, cols, "description")
	assert.Nil(t, cols["description"])
	assert.NotContains(t, cols, "session_id")
	assert.NotContains(t, cols, "is_favorite")
}

func TestRecipePatchConditionalFields(t *testing.T) {
	patch := RecipePatch{
		Title:      "T",
		SessionID:  Null[string](),
		IsFavorite: Some(true),
	}
	cols := patch.Columns()
	assert.Nil(t, cols["session_id"])
	assert.Contains(t, cols, "session_id")
	assert.Equal(t, true, cols["is_favorite"])

	session := "s1"
	r := &GeneratedRecipe{SessionID: &session}
	patch.Apply(r)
	assert.Nil(t, r.SessionID)
	assert.True(t, r.IsFavorite)
}
