package costing

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostRecipe(t *testing.T) {
	lines := []LineInput{
		{IngredientID: "wagyu", Name: "Wagyu", Quantity: 0.3, Unit: "kg", UnitPrice: 477.25},
		{IngredientID: "soy", Name: "Soy Sauce", Quantity: 0.05, Unit: "L", UnitPrice: 8},
	}

	summary, err := CostRecipe(RecipeInput{ID: "r1", Name: "Wagyu Tataki", Course: "Appetizers", Portions: 4}, lines, 30)
	require.NoError(t, err)

	require.Len(t, summary.Lines, 2)
	assert.InDelta(t, 143.175, summary.Lines[0].LineCost, 1e-9)
	assert.InDelta(t, 0.4, summary.Lines[1].LineCost, 1e-9)
	assert.InDelta(t, 143.575, summary.TotalCost, 1e-9)
	assert.InDelta(t, 35.89375, summary.CostPerPortion, 1e-9)
	assert.InDelta(t, summary.TotalCost, summary.CostPerPortion*float64(summary.Portions), 1e-9)
	assert.Equal(t, "r1", summary.RecipeID)
	assert.Equal(t, "Appetizers", summary.Course)
	assert.Equal(t, 30.0, summary.FoodCostPercent)
	assert.Equal(t, 70.0, summary.GrossProfitPercent)
}

func TestCostRecipeLineCostsSumToTotal(t *testing.T) {
	var lines []LineInput
	for n := 0; n < 40; n++ {
		lines = append(lines, LineInput{
			Name:           fmt.Sprintf("item %d", n),
			Quantity:       0.013 * float64(n%7+1),
			UnitPrice:      3.7*float64(n) + 0.99,
			WastagePercent: float64(n%5) * 12.5,
		})
	}

	summary, err := CostRecipe(RecipeInput{Name: "Tasting Menu", Portions: 7}, lines, 30)
	require.NoError(t, err)
	require.Len(t, summary.Lines, len(lines))

	var sum float64
	for n, l := range summary.Lines {
		assert.Equal(t, lines[n].Name, l.Ingredient, "lines keep their order")
		assert.InDelta(t, TrueCost(lines[n].UnitPrice, lines[n].WastagePercent)*lines[n].Quantity, l.LineCost, 1e-9)
		sum += l.LineCost
	}
	assert.InDelta(t, sum, summary.TotalCost, 1e-6)
	assert.InDelta(t, summary.TotalCost, summary.CostPerPortion*7, 1e-6)
}

func TestCostRecipeAppliesWastage(t *testing.T) {
	lines := []LineInput{{Name: "Wagyu", Quantity: 1, UnitPrice: 415, WastagePercent: 15}}

	summary, err := CostRecipe(RecipeInput{Name: "Steak", Portions: 1}, lines, 30)
	require.NoError(t, err)
	assert.InDelta(t, 488.2352941, summary.Lines[0].TrueCost, 1e-6)
	assert.Equal(t, 415.0, summary.Lines[0].UnitCost)
	assert.GreaterOrEqual(t, summary.Lines[0].TrueCost, summary.Lines[0].UnitCost)
}

func TestCostRecipeTwoPortions(t *testing.T) {
	lines := []LineInput{{Name: "Sea Bass", Quantity: 1, UnitPrice: 44.98}}

	summary, err := CostRecipe(RecipeInput{Name: "Sea Bass", Portions: 2}, lines, DefaultTargetFoodCostPercent)
	require.NoError(t, err)
	assert.Equal(t, 22.49, Round2(summary.CostPerPortion))
	assert.Equal(t, 74.97, Round2(summary.SuggestedPrice))
	assert.Equal(t, 52.48, Round2(summary.GrossProfit))
}

func TestCostRecipeEmptyLines(t *testing.T) {
	summary, err := CostRecipe(RecipeInput{Name: "Water", Portions: 1}, nil, 30)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)
	assert.Equal(t, 0.0, summary.TotalCost)
	assert.Equal(t, 0.0, summary.SuggestedPrice)
}

func TestCostRecipeInvalidInput(t *testing.T) {
	valid := []LineInput{{Name: "Salt", Quantity: 1, UnitPrice: 1}}

	tests := []struct {
		name     string
		portions int
		lines    []LineInput
		target   float64
	}{
		{"zero portions", 0, valid, 30},
		{"negative portions", -2, valid, 30},
		{"zero target", 1, valid, 0},
		{"negative quantity", 1, []LineInput{{Name: "Salt", Quantity: -1, UnitPrice: 1}}, 30},
		{"negative price", 1, []LineInput{{Name: "Salt", Quantity: 1, UnitPrice: -1}}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := CostRecipe(RecipeInput{Name: "Bad", Portions: tt.portions}, tt.lines, tt.target)
			assert.Nil(t, summary)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestIngredientCostJSON(t *testing.T) {
	c := NewIngredientCost("i1", "Sea Bass", "FISH", 161, "kg", 60)
	assert.InDelta(t, 402.5, c.TrueCost(), 1e-9)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "i1", decoded["ingredient_id"])
	assert.Equal(t, "FISH", decoded["category"])
	assert.InDelta(t, 402.5, decoded["true_cost"], 1e-9)
}
