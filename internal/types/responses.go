package types

import (
	"github.com/pageza/alchemorsel-ideas/backend/internal/apperr"
	"github.com/pageza/alchemorsel-ideas/backend/internal/model"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool          `json:"success"`
	Data    interface{}   `json:"data,omitempty"`
	Error   *apperr.Error `json:"error,omitempty"`
}

// IDResponse is returned by the create, update and upsert operations.
type IDResponse struct {
	ID string `json:"id"`
}

// Page is one page of a list operation. Total is the number of items on
// this page, not the number of matching rows.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type (
	SessionPage = Page[model.IdeaSession]
	RecipePage  = Page[model.GeneratedRecipe]
)

// NewPage echoes the request bounds back with the items found.
func NewPage[T any](items []T, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Total:    len(items),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
}

// Success wraps data in a success envelope.
func Success(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure wraps e in an error envelope.
func Failure(e *apperr.Error) Envelope {
	return Envelope{Success: false, Error: e}
}
