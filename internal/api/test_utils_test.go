package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-ideas/backend/internal/auth"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockIdeaService implements service.IIdeaService for handler tests
type MockIdeaService struct {
	mock.Mock
}

func (m *MockIdeaService) CreateSession(ctx context.Context, req *types.CreateSessionRequest) (*types.IDResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IDResponse), args.Error(1)
}

func (m *MockIdeaService) UpdateSession(ctx context.Context, req *types.UpdateSessionRequest) (*types.IDResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IDResponse), args.Error(1)
}

func (m *MockIdeaService) ListSessions(ctx context.Context, req *types.ListSessionsRequest) (*types.SessionPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SessionPage), args.Error(1)
}

func (m *MockIdeaService) GetSession(ctx context.Context, id string) (*model.IdeaSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IdeaSession), args.Error(1)
}

func (m *MockIdeaService) UpsertRecipe(ctx context.Context, req *types.UpsertRecipeRequest) (*types.IDResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IDResponse), args.Error(1)
}

func (m *MockIdeaService) ListRecipes(ctx context.Context, req *types.ListRecipesRequest) (*types.RecipePage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipePage), args.Error(1)
}

func (m *MockIdeaService) GetRecipe(ctx context.Context, id string) (*model.GeneratedRecipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedRecipe), args.Error(1)
}

// setupIdeaTestRouter mounts the handler behind a middleware that marks
// every request as coming from user "u1".
func setupIdeaTestRouter(svc *MockIdeaService) *gin.Engine {
	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), &auth.User{ID: "u1"}))
		c.Next()
	})
	NewIdeaHandler(svc, zerolog.New(io.Discard)).RegisterRoutes(v1)
	return router
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}
