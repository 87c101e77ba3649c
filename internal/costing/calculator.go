package costing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultTargetFoodCostPercent is the food-cost target used when none is configured.
const DefaultTargetFoodCostPercent = 30.0

// ErrInvalidInput is returned for inputs the formulas are not defined for,
// such as zero portions or a zero food-cost target.
var ErrInvalidInput = errors.New("invalid input")

// TrueCost converts a nominal unit price into the effective cost per usable unit.
// A wastage of 100% or more saturates and returns costPrice unchanged.
func TrueCost(costPrice, wastagePercent float64) float64 {
	if wastagePercent >= 100 {
		return costPrice
	}
	return costPrice / (1 - wastagePercent/100)
}

// SuggestedPrice returns the menu price at which cost is targetFoodCostPercent of the price.
func SuggestedPrice(cost, targetFoodCostPercent float64) (float64, error) {
	if targetFoodCostPercent <= 0 {
		return 0, fmt.Errorf("%w: target food cost percent must be greater than zero, got %v", ErrInvalidInput, targetFoodCostPercent)
	}
	return cost / (targetFoodCostPercent / 100), nil
}

// Pricing holds the menu price derived from a portion cost and a food-cost target.
type Pricing struct {
	SuggestedPrice     float64 `json:"suggested_price"`
	FoodCostPercent    float64 `json:"food_cost_percent"`
	GrossProfit        float64 `json:"gross_profit"`
	GrossProfitPercent float64 `json:"gross_profit_percent"`
}

// Price derives the suggested price and gross profit figures for one portion.
func Price(costPerPortion, targetFoodCostPercent float64) (Pricing, error) {
	suggested, err := SuggestedPrice(costPerPortion, targetFoodCostPercent)
	if err != nil {
		return Pricing{}, err
	}
	return Pricing{
		SuggestedPrice:     suggested,
		FoodCostPercent:    targetFoodCostPercent,
		GrossProfit:        suggested - costPerPortion,
		GrossProfitPercent: 100 - targetFoodCostPercent,
	}, nil
}

// Round2 rounds a money or percentage value half-up to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
