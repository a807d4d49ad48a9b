package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/alchemorsel-ideas/backend/internal/service"
	"github.com/pageza/alchemorsel-ideas/backend/internal/types"
)

// IdeaHandler serves idea sessions and generated recipes.
type IdeaHandler struct {
	ideas service.IIdeaService
	log   zerolog.Logger
}

func NewIdeaHandler(ideas service.IIdeaService, log zerolog.Logger) *IdeaHandler {
	setupValidator()
	return &IdeaHandler{ideas: ideas, log: log}
}

func (h *IdeaHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/idea-sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:id", h.GetSession)
		sessions.PATCH("/:id", h.UpdateSession)
	}

	recipes := router.Group("/generated-recipes")
	{
		recipes.PUT("", h.UpsertRecipe)
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}
}

func (h *IdeaHandler) CreateSession(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err, "body"))
		return
	}

	res, err := h.ideas.CreateSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, res)
}

func (h *IdeaHandler) UpdateSession(c *gin.Context) {
	req := types.UpdateSessionRequest{ID: c.Param("id")}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err, "body"))
		return
	}
	// The path names the session; an id in the body cannot retarget it.
	req.ID = c.Param("id")

	res, err := h.ideas.UpdateSession(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *IdeaHandler) ListSessions(c *gin.Context) {
	var req types.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.log, queryError(err, &req, c.Request.URL.Query()))
		return
	}

	page, err := h.ideas.ListSessions(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, page)
}

func (h *IdeaHandler) GetSession(c *gin.Context) {
	session, err := h.ideas.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, session)
}

func (h *IdeaHandler) UpsertRecipe(c *gin.Context) {
	var req types.UpsertRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, bindError(err, "body"))
		return
	}

	res, err := h.ideas.UpsertRecipe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, res)
}

func (h *IdeaHandler) ListRecipes(c *gin.Context) {
	var req types.ListRecipesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, h.log, queryError(err, &req, c.Request.URL.Query()))
		return
	}

	page, err := h.ideas.ListRecipes(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, page)
}

func (h *IdeaHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.ideas.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, recipe)
}
