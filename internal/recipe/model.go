package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"kitchenbook/internal/validation"
)

// ErrInvalid is wrapped by every validation error in this package.
var ErrInvalid = errors.New("invalid recipe")

// Line is one ingredient of a recipe. Prices are never stored on a line;
// they are read from the ingredient catalog whenever the recipe is costed.
type Line struct {
	IngredientID string  `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"gte=0"`
	Unit         string  `json:"unit"`
}

// Recipe represents a recipe card in the recipe book.
type Recipe struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	Course       string    `json:"course"`
	Cuisine      string    `json:"cuisine"`
	Category     string    `json:"category"`
	Portions     int       `json:"portions" binding:"gte=1"`
	PrepTime     string    `json:"prep_time"`
	CookTime     string    `json:"cook_time"`
	Instructions []string  `json:"instructions"`
	Ingredients  []Line    `json:"ingredients" binding:"dive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		Cuisine string `json:"cuisine"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Cuisine = strings.ToLower(strings.TrimSpace(aux.Cuisine))

	return nil
}

// Filter narrows a recipe listing. Zero values match everything.
type Filter struct {
	Course  string
	Cuisine string
}

// Matches reports whether the recipe passes the filter.
func (f Filter) Matches(r *Recipe) bool {
	if f.Course != "" && !strings.EqualFold(r.Course, f.Course) {
		return false
	}
	if f.Cuisine != "" && !strings.EqualFold(r.Cuisine, f.Cuisine) {
		return false
	}
	return true
}

// Store defines the interface for recipe data operations.
type Store interface {
	ListRecipes(ctx context.Context, filter Filter) ([]*Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	CreateRecipe(ctx context.Context, r *Recipe) error
	UpdateRecipe(ctx context.Context, r *Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// Validate checks the binding tags: a name, at least one portion, and an
// ingredient id with a non-negative quantity on every line.
func (r *Recipe) Validate() error {
	return validation.Struct(r, ErrInvalid)
}

// Normalize fills empty slices so they serialise as [] rather than null.
func (r *Recipe) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Course = strings.TrimSpace(r.Course)
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Line{}
	}
	for i := range r.Ingredients {
		r.Ingredients[i].IngredientID = strings.TrimSpace(r.Ingredients[i].IngredientID)
	}
}
