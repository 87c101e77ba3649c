package costing

import (
	"encoding/json"
	"fmt"
)

// IngredientCost is an ingredient's purchase price together with its wastage-adjusted cost.
// The true cost is only ever derived, see NewIngredientCost.
type IngredientCost struct {
	IngredientID   string
	Name           string
	Category       string
	UnitPrice      float64
	Unit           string
	WastagePercent float64

	trueCost float64
}

// NewIngredientCost builds an IngredientCost, deriving its true cost.
func NewIngredientCost(id, name, category string, unitPrice float64, unit string, wastagePercent float64) IngredientCost {
	return IngredientCost{
		IngredientID:   id,
		Name:           name,
		Category:       category,
		UnitPrice:      unitPrice,
		Unit:           unit,
		WastagePercent: wastagePercent,
		trueCost:       TrueCost(unitPrice, wastagePercent),
	}
}

// TrueCost returns the wastage-adjusted cost per unit.
func (c IngredientCost) TrueCost() float64 {
	return c.trueCost
}

// MarshalJSON implements the json.Marshaler interface for IngredientCost.
func (c IngredientCost) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IngredientID   string  `json:"ingredient_id"`
		Name           string  `json:"name"`
		Category       string  `json:"category"`
		UnitPrice      float64 `json:"unit_price"`
		Unit           string  `json:"unit"`
		WastagePercent float64 `json:"wastage_percent"`
		TrueCost       float64 `json:"true_cost"`
	}{c.IngredientID, c.Name, c.Category, c.UnitPrice, c.Unit, c.WastagePercent, c.trueCost})
}

// LineInput is one ingredient line of a recipe as read from the catalog.
type LineInput struct {
	IngredientID   string  `json:"ingredient_id"`
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	UnitPrice      float64 `json:"unit_price"`
	WastagePercent float64 `json:"wastage_percent"`
}

// RecipeInput identifies the recipe being costed.
type RecipeInput struct {
	ID       string
	Name     string
	Course   string
	Portions int
}

// RecipeCostLine is a costed ingredient line.
type RecipeCostLine struct {
	IngredientID   string  `json:"ingredient_id"`
	Ingredient     string  `json:"ingredient"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	UnitCost       float64 `json:"unit_cost"`
	WastagePercent float64 `json:"wastage_percent"`
	TrueCost       float64 `json:"true_cost"`
	LineCost       float64 `json:"line_cost"`
}

// RecipeCostSummary is the full costing of one recipe.
type RecipeCostSummary struct {
	RecipeID           string           `json:"recipe_id"`
	Name               string           `json:"name"`
	Course             string           `json:"course"`
	Portions           int              `json:"portions"`
	Lines              []RecipeCostLine `json:"lines"`
	TotalCost          float64          `json:"total_cost"`
	CostPerPortion     float64          `json:"cost_per_portion"`
	SuggestedPrice     float64          `json:"suggested_price"`
	FoodCostPercent    float64          `json:"food_cost_percent"`
	GrossProfit        float64          `json:"gross_profit"`
	GrossProfitPercent float64          `json:"gross_profit_percent"`
}

// CostRecipe costs every line of a recipe in order and prices a portion
// against targetFoodCostPercent.
func CostRecipe(r RecipeInput, lines []LineInput, targetFoodCostPercent float64) (*RecipeCostSummary, error) {
	if r.Portions <= 0 {
		return nil, fmt.Errorf("%w: recipe %q: portions must be at least 1, got %d", ErrInvalidInput, r.Name, r.Portions)
	}

	summary := &RecipeCostSummary{
		RecipeID: r.ID,
		Name:     r.Name,
		Course:   r.Course,
		Portions: r.Portions,
		Lines:    make([]RecipeCostLine, 0, len(lines)),
	}

	for i, l := range lines {
		if l.Quantity < 0 {
			return nil, fmt.Errorf("%w: recipe %q line %d (%s): negative quantity %v", ErrInvalidInput, r.Name, i+1, l.Name, l.Quantity)
		}
		if l.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: recipe %q line %d (%s): negative unit price %v", ErrInvalidInput, r.Name, i+1, l.Name, l.UnitPrice)
		}
		trueCost := TrueCost(l.UnitPrice, l.WastagePercent)
		line := RecipeCostLine{
			IngredientID:   l.IngredientID,
			Ingredient:     l.Name,
			Quantity:       l.Quantity,
			Unit:           l.Unit,
			UnitCost:       l.UnitPrice,
			WastagePercent: l.WastagePercent,
			TrueCost:       trueCost,
			LineCost:       trueCost * l.Quantity,
		}
		summary.TotalCost += line.LineCost
		summary.Lines = append(summary.Lines, line)
	}

	summary.CostPerPortion = summary.TotalCost / float64(r.Portions)

	pricing, err := Price(summary.CostPerPortion, targetFoodCostPercent)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
	}
	summary.SuggestedPrice = pricing.SuggestedPrice
	summary.FoodCostPercent = pricing.FoodCostPercent
	summary.GrossProfit = pricing.GrossProfit
	summary.GrossProfitPercent = pricing.GrossProfitPercent

	return summary, nil
}
