package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

func TestCreateSession(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("CreateSession", mock.Anything, mock.MatchedBy(func(req *types.CreateSessionRequest) bool {
		return req.Title != nil && *req.Title == "Quick dinners" && req.Prompt == nil
	})).Return(&types.IDResponse{ID: "s1"}, nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodPost, "/api/v1/idea-sessions", `{"title":"Quick dinners"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"id":"s1"}`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"zero serving count", http.MethodPost, "/api/v1/idea-sessions", `{"servingCount":0}`, "servingCount"},
		{"serving count type", http.MethodPost, "/api/v1/idea-sessions", `{"servingCount":"two"}`, "servingCount"},
		{"malformed json", http.MethodPost, "/api/v1/idea-sessions", `{"title":`, "body"},
		{"patch zero serving count", http.MethodPatch, "/api/v1/idea-sessions/s1", `{"servingCount":0}`, "servingCount"},
		{"missing title", http.MethodPut, "/api/v1/generated-recipes", `{}`, "title"},
		{"empty title", http.MethodPut, "/api/v1/generated-recipes", `{"title":""}`, "title"},
		{"negative prep time", http.MethodPut, "/api/v1/generated-recipes", `{"title":"t","prepTimeMinutes":-1}`, "prepTimeMinutes"},
		{"zero servings", http.MethodPut, "/api/v1/generated-recipes", `{"title":"t","servings":0}`, "servings"},
		{"ingredient name", http.MethodPut, "/api/v1/generated-recipes", `{"title":"t","ingredients":[{"name":"a"},{"quantity":"1"}]}`, "ingredients[1].name"},
		{"step order", http.MethodPut, "/api/v1/generated-recipes", `{"title":"t","steps":[{"orderIndex":0,"instruction":"x"}]}`, "steps[0].orderIndex"},
		{"page size too large", http.MethodGet, "/api/v1/idea-sessions?pageSize=101", "", "pageSize"},
		{"page zero", http.MethodGet, "/api/v1/generated-recipes?page=0", "", "page"},
		{"page not a number", http.MethodGet, "/api/v1/generated-recipes?page=abc", "", "page"},
		{"page size not a number", http.MethodGet, "/api/v1/idea-sessions?pageSize=abc", "", "pageSize"},
		{"favorites not a boolean", http.MethodGet, "/api/v1/generated-recipes?favoritesOnly=maybe", "", "favoritesOnly"},
		{"page too large", http.MethodGet, "/api/v1/generated-recipes?page=92233720368547760", "", "page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockIdeaService)
			w, env := doJSON(t, setupIdeaTestRouter(svc), tt.method, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
			require.NotEmpty(t, env.Error.Fields)
			assert.Equal(t, tt.field, env.Error.Fields[0].Path)
			svc.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
			svc.AssertNotCalled(t, "UpsertRecipe", mock.Anything, mock.Anything)
		})
	}
}

func TestQueryTypeErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		path    string
		message string
	}{
		{"page size", "pageSize=abc", "pageSize", "must be of type number"},
		{"favorites", "page=2&favoritesOnly=maybe", "favoritesOnly", "must be of type boolean"},
		{"overflow", "page=99999999999999999999", "page", "is out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, setupIdeaTestRouter(new(MockIdeaService)), http.MethodGet,
				"/api/v1/generated-recipes?"+tt.query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			require.Len(t, env.Error.Fields, 1)
			assert.Equal(t, tt.path, env.Error.Fields[0].Path)
			assert.Equal(t, tt.message, env.Error.Fields[0].Message)
		})
	}
}

func TestUpdateSessionUsesPathID(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("UpdateSession", mock.Anything, mock.MatchedBy(func(req *types.UpdateSessionRequest) bool {
		return req.ID == "s1" &&
			req.Title.Present() && req.Title.Value == "New" &&
			req.Prompt.Set && req.Prompt.Null &&
			!req.ServingCount.Set
	})).Return(&types.IDResponse{ID: "s1"}, nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodPatch, "/api/v1/idea-sessions/s1",
		`{"id":"other","title":"New","prompt":null}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"s1"}`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestUpsertRecipeBinding(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("UpsertRecipe", mock.Anything, mock.MatchedBy(func(req *types.UpsertRecipeRequest) bool {
		return req.ID == nil &&
			req.SessionID.Present() && req.SessionID.Value == "s1" &&
			req.Ingredients != nil && len(req.Ingredients) == 0 &&
			req.Steps == nil &&
			req.IsFavorite != nil && *req.IsFavorite
	})).Return(&types.IDResponse{ID: "r1"}, nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodPut, "/api/v1/generated-recipes",
		`{"sessionId":"s1","title":"Pasta","isFavorite":true,"ingredients":[]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"r1"}`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestListRecipesQuery(t *testing.T) {
	svc := new(MockIdeaService)
	page := types.NewPage([]model.GeneratedRecipe{{ID: "r1", Title: "Pasta"}}, types.PageRequest{Page: 2, PageSize: 10})
	svc.On("ListRecipes", mock.Anything, mock.MatchedBy(func(req *types.ListRecipesRequest) bool {
		return req.Page == 2 && req.PageSize == 10 && req.SessionID == "s1" && req.FavoritesOnly
	})).Return(page, nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodGet,
		"/api/v1/generated-recipes?page=2&pageSize=10&sessionId=s1&favoritesOnly=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total    int `json:"total"`
		Page     int `json:"page"`
		PageSize int `json:"pageSize"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Items, 1)
	assert.Equal(t, 1, data.Total)
	assert.Equal(t, 2, data.Page)
	assert.Equal(t, 10, data.PageSize)
	svc.AssertExpectations(t)
}

func TestListSessionsDefaults(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("ListSessions", mock.Anything, mock.MatchedBy(func(req *types.ListSessionsRequest) bool {
		return req.Page == types.DefaultPage && req.PageSize == types.DefaultPageSize
	})).Return(types.NewPage[model.IdeaSession](nil, types.PageRequest{Page: 1, PageSize: 20}), nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodGet, "/api/v1/idea-sessions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"pageSize":20}`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperr.NotFound("idea session not found"), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", apperr.Unauthorized(""), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockIdeaService)
			svc.On("GetSession", mock.Anything, "s1").Return(nil, tt.err)

			w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodGet, "/api/v1/idea-sessions/s1", "")

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestGetRecipe(t *testing.T) {
	svc := new(MockIdeaService)
	svc.On("GetRecipe", mock.Anything, "r1").Return(&model.GeneratedRecipe{
		ID:          "r1",
		Title:       "Pasta",
		Ingredients: []model.Ingredient{{ID: "i1", Name: "Pasta"}},
		Steps:       []model.Step{{ID: "st1", OrderIndex: 1, Instruction: "Boil water"}},
	}, nil)

	w, env := doJSON(t, setupIdeaTestRouter(svc), http.MethodGet, "/api/v1/generated-recipes/r1", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var data model.GeneratedRecipe
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Pasta", data.Title)
	assert.Len(t, data.Ingredients, 1)
	assert.Equal(t, "Boil water", data.Steps[0].Instruction)
}
