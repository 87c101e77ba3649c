package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := func() *Ingredient {
		return &Ingredient{Name: "Wagyu", UnitPrice: 415, Unit: "kg", WastagePercent: 15, OrderUnit: "KG", Allergens: []string{"milk"}}
	}

	tests := []struct {
		name    string
		mutate  func(i *Ingredient)
		message string
	}{
		{"valid", func(i *Ingredient) {}, ""},
		{"blank name after trim", func(i *Ingredient) { i.Name = "   " }, "name is required"},
		{"blank unit", func(i *Ingredient) { i.Unit = "" }, "unit is required"},
		{"negative price", func(i *Ingredient) { i.UnitPrice = -1 }, "unit_price must be at least 0"},
		{"wastage above 100", func(i *Ingredient) { i.WastagePercent = 120 }, "wastage_percent must be at most 100"},
		{"negative par level", func(i *Ingredient) { i.ParLevel = -2 }, "par_level must be at least 0"},
		{"unknown order unit", func(i *Ingredient) { i.OrderUnit = "Crate" }, "unknown order_unit"},
		{"unknown allergen", func(i *Ingredient) { i.Allergens = []string{"pollen"} }, "unknown allergen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := valid()
			tt.mutate(i)
			i.Normalize()
			err := i.Validate()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
