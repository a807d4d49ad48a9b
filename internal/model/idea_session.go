package model

import "time"

// IdeaSession is a saved prompt context that recipes are generated from.
type IdeaSession struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID            string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	Title             *string   `gorm:"type:text" json:"title"`
	Prompt            *string   `gorm:"type:text" json:"prompt"`
	CuisinePreference *string   `gorm:"type:text" json:"cuisinePreference"`
	DietaryPreference *string   `gorm:"type:text" json:"dietaryPreference"`
	ServingCount      *int      `gorm:"check:serving_count > 0" json:"servingCount"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

func (IdeaSession) TableName() string {
	return "recipe_idea_sessions"
}

// SessionPatch carries a partial session update. Only fields that are Set
// are written; a Null field clears the column.
type SessionPatch struct {
	Title             Optional[string]
	Prompt            Optional[string]
	CuisinePreference Optional[string]
	DietaryPreference Optional[string]
	ServingCount      Optional[int]
	UpdatedAt         time.Time
}

// Columns returns the column assignments for the patch.
func (p SessionPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"updated_at": p.UpdatedAt,
	}
	setColumn(cols, "title", p.Title)
	setColumn(cols, "prompt", p.Prompt)
	setColumn(cols, "cuisine_preference", p.CuisinePreference)
	setColumn(cols, "dietary_preference", p.DietaryPreference)
	setColumn(cols, "serving_count", p.ServingCount)
	return cols
}

// Apply writes the patch onto s.
func (p SessionPatch) Apply(s *IdeaSession) {
	applyField(&s.Title, p.Title)
	applyField(&s.Prompt, p.Prompt)
	applyField(&s.CuisinePreference, p.CuisinePreference)
	applyField(&s.DietaryPreference, p.DietaryPreference)
	applyField(&s.ServingCount, p.ServingCount)
	s.UpdatedAt = p.UpdatedAt
}

func setColumn[T any](cols map[string]interface{}, name string, o Optional[T]) {
	if !o.Set {
		return
	}
	if o.Null {
		cols[name] = nil
		return
	}
	cols[name] = o.Value
}

func applyField[T any](dst **T, o Optional[T]) {
	if o.Set {
		*dst = o.Ptr()
	}
}

// nullable unwraps a pointer so that a nil pointer becomes an untyped nil.
func nullable[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
