package model

import "time"

// GeneratedRecipe is one recipe, optionally traced back to an IdeaSession.
type GeneratedRecipe struct {
	ID              string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID       *string      `gorm:"type:varchar(36);index" json:"sessionId"`
	Session         *IdeaSession `gorm:"foreignKey:SessionID;constraint:OnDelete:SET NULL" json:"-"`
	UserID          string       `gorm:"type:varchar(36);not null;index" json:"userId"`
	Title           string       `gorm:"type:text;not null" json:"title"`
	Description     *string      `gorm:"type:text" json:"description"`
	Cuisine         *string      `gorm:"type:text" json:"cuisine"`
	MealType        *string      `gorm:"type:text" json:"mealType"`
	Tags            *string      `gorm:"type:text" json:"tags"`
	Servings        *int         `gorm:"check:servings > 0" json:"servings"`
	PrepTimeMinutes *int         `gorm:"check:prep_time_minutes >= 0" json:"prepTimeMinutes"`
	CookTimeMinutes *int         `gorm:"check:cook_time_minutes >= 0" json:"cookTimeMinutes"`
	Notes           *string      `gorm:"type:text" json:"notes"`
	IsFavorite      bool         `gorm:"not null;default:false;index" json:"isFavorite"`
	CreatedAt       time.Time    `gorm:"not null;autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt       time.Time    `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
	Ingredients     []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Steps           []Step       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

func (GeneratedRecipe) TableName() string {
	return "generated_recipes"
}

// Ingredient belongs to a GeneratedRecipe and is replaced as a set.
type Ingredient struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID   string    `gorm:"type:varchar(36);not null;index" json:"recipeId"`
	OrderIndex *int      `gorm:"check:order_index >= 0" json:"orderIndex"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Quantity   *string   `gorm:"type:text" json:"quantity"`
	Notes      *string   `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}

func (Ingredient) TableName() string {
	return "generated_recipe_ingredients"
}

// Step belongs to a GeneratedRecipe and is replaced as a set.
type Step struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID    string    `gorm:"type:varchar(36);not null;index" json:"recipeId"`
	OrderIndex  int       `gorm:"not null;check:order_index >= 1" json:"orderIndex"`
	Instruction string    `gorm:"type:text;not null" json:"instruction"`
	Tip         *string   `gorm:"type:text" json:"tip"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
}

func (Step) TableName() string {
	return "generated_recipe_steps"
}

// RecipePatch is the update applied by the upsert path. Title and the
// descriptive fields are always overwritten, so a nil pointer clears the
// column. SessionID and IsFavorite are only written when Set.
type RecipePatch struct {
	Title           string
	Description     *string
	Cuisine         *string
	MealType        *string
	Tags            *string
	Servings        *int
	PrepTimeMinutes *int
	CookTimeMinutes *int
	Notes           *string
	SessionID       Optional[string]
	IsFavorite      Optional[bool]
	UpdatedAt       time.Time
}

// Columns returns the column assignments for the patch.
func (p RecipePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"title":             p.Title,
		"description":       nullable(p.Description),
		"cuisine":           nullable(p.Cuisine),
		"meal_type":         nullable(p.MealType),
		"tags":              nullable(p.Tags),
		"servings":          nullable(p.Servings),
		"prep_time_minutes": nullable(p.PrepTimeMinutes),
		"cook_time_minutes": nullable(p.CookTimeMinutes),
		"notes":             nullable(p.Notes),
		"updated_at":        p.UpdatedAt,
	}
	setColumn(cols, "session_id", p.SessionID)
	if p.IsFavorite.Set {
		cols["is_favorite"] = p.IsFavorite.Present() && p.IsFavorite.Value
	}
	return cols
}

// Apply writes the patch onto r.
func (p RecipePatch) Apply(r *GeneratedRecipe) {
	r.Title = p.Title
	r.Description = p.Description
	r.Cuisine = p.Cuisine
	r.MealType = p.MealType
	r.Tags = p.Tags
	r.Servings = p.Servings
	r.PrepTimeMinutes = p.PrepTimeMinutes
	r.CookTimeMinutes = p.CookTimeMinutes
	r.Notes = p.Notes
	applyField(&r.SessionID, p.SessionID)
	if p.IsFavorite.Set {
		r.IsFavorite = p.IsFavorite.Present() && p.IsFavorite.Value
	}
	r.UpdatedAt = p.UpdatedAt
}
