package service

import (
	"context"

	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

// IIdeaService defines the interface for idea session and generated recipe operations
type IIdeaService interface {
	CreateSession(ctx context.Context, req *types.CreateSessionRequest) (*types.IDResponse, error)
	UpdateSession(ctx context.Context, req *types.UpdateSessionRequest) (*types.IDResponse, error)
	ListSessions(ctx context.Context, req *types.ListSessionsRequest) (*types.SessionPage, error)
	GetSession(ctx context.Context, id string) (*model.IdeaSession, error)
	UpsertRecipe(ctx context.Context, req *types.UpsertRecipeRequest) (*types.IDResponse, error)
	ListRecipes(ctx context.Context, req *types.ListRecipesRequest) (*types.RecipePage, error)
	GetRecipe(ctx context.Context, id string) (*model.GeneratedRecipe, error)
}

// ITokenService defines the interface for bearer token operations
type ITokenService interface {
	GenerateToken(userID, username string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

var (
	_ IIdeaService  = (*IdeaService)(nil)
	_ ITokenService = (*TokenService)(nil)
)
