package costing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrueCost(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		wastage  float64
		expected float64
	}{
		{"no wastage", 8, 0, 8},
		{"wagyu at fifteen percent", 415, 15, 488.23529411764706},
		{"sea bass at sixty percent", 161, 60, 402.5},
		{"full wastage saturates", 100, 100, 100},
		{"above full wastage saturates", 100, 150, 100},
		{"zero price", 0, 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TrueCost(tt.price, tt.wastage), 1e-9)
		})
	}
}

func TestTrueCostNeverBelowPrice(t *testing.T) {
	for w := 0.0; w <= 120; w += 2.5 {
		assert.GreaterOrEqual(t, TrueCost(37.5, w), 37.5, "wastage %v", w)
	}
}

func TestTrueCostEqualsPriceOnlyWithoutWastage(t *testing.T) {
	for _, price := range []float64{0.35, 8, 44.98, 415, 12000} {
		assert.Equal(t, price, TrueCost(price, 0), "price %v", price)
		for _, w := range []float64{0.01, 0.5, 2.5, 15, 33.3, 60, 99, 99.99} {
			assert.Greater(t, TrueCost(price, w), price, "price %v wastage %v", price, w)
		}
	}
}

func TestSuggestedPriceRoundTrip(t *testing.T) {
	for _, cost := range []float64{0.4, 22.49, 35.89375, 143.575, 4999.99} {
		for _, target := range []float64{DefaultTargetFoodCostPercent, 12.5, 28, 35, 100} {
			price, err := SuggestedPrice(cost, target)
			require.NoError(t, err)
			assert.InDelta(t, target, 100*cost/price, 1e-9, "cost %v target %v", cost, target)
		}
	}
}

func TestSuggestedPrice(t *testing.T) {
	price, err := SuggestedPrice(22.49, DefaultTargetFoodCostPercent)
	require.NoError(t, err)
	assert.InDelta(t, 74.9666666, price, 1e-6)
	assert.Equal(t, 74.97, Round2(price))

	price, err = SuggestedPrice(10, 25)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, price, 1e-9)

	// A target above 100 prices below cost.
	price, err = SuggestedPrice(10, 125)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, price, 1e-9)
}

func TestSuggestedPriceRejectsNonPositiveTarget(t *testing.T) {
	for _, target := range []float64{0, -30} {
		_, err := SuggestedPrice(10, target)
		assert.True(t, errors.Is(err, ErrInvalidInput), "target %v", target)
	}
}

func TestPrice(t *testing.T) {
	p, err := Price(22.49, 30)
	require.NoError(t, err)
	assert.Equal(t, 74.97, Round2(p.SuggestedPrice))
	assert.Equal(t, 52.48, Round2(p.GrossProfit))
	assert.Equal(t, 30.0, p.FoodCostPercent)
	assert.Equal(t, 70.0, p.GrossProfitPercent)
	assert.InDelta(t, p.SuggestedPrice-22.49, p.GrossProfit, 1e-9)

	_, err = Price(22.49, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 488.24, Round2(488.23529411764706))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 143.58, Round2(143.575))
	assert.Equal(t, 0.0, Round2(0))
}
