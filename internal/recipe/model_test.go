package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		recipe  Recipe
		message string
	}{
		{"valid", Recipe{Name: "Tataki", Portions: 4, Ingredients: []Line{{IngredientID: "wagyu", Quantity: 0.3}}}, ""},
		{"missing name", Recipe{Name: " ", Portions: 4}, "name is required"},
		{"zero portions", Recipe{Name: "Tataki"}, "portions must be at least 1"},
		{"line without ingredient", Recipe{Name: "Tataki", Portions: 1, Ingredients: []Line{{IngredientID: "a"}, {IngredientID: "  "}}}, "ingredients[1].ingredient_id is required"},
		{"negative quantity", Recipe{Name: "Tataki", Portions: 1, Ingredients: []Line{{IngredientID: "a", Quantity: -1}}}, "ingredients[0].quantity must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.recipe
			r.Normalize()
			err := r.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
