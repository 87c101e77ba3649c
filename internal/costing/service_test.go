package costing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/store"
)

func newTestKitchen(t *testing.T) (*store.MemoryStore, map[string]string) {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()

	ids := map[string]string{}
	for _, i := range []*ingredient.Ingredient{
		{Name: "Wagyu", Category: "Protein", UnitPrice: 415, Unit: "kg", WastagePercent: 15},
		{Name: "Soy Sauce", Category: "JAPANESE", UnitPrice: 8, Unit: "L"},
		{Name: "Sea Bass", Category: "FISH", UnitPrice: 44.98, Unit: "kg"},
	} {
		i.Normalize()
		require.NoError(t, st.CreateIngredient(ctx, i))
		ids[i.Name] = i.ID
	}

	for _, r := range []*recipe.Recipe{
		{Name: "Tataki", Course: "Appetizers", Portions: 4, Ingredients: []recipe.Line{
			{IngredientID: ids["Wagyu"], Quantity: 0.3, Unit: "kg"},
			{IngredientID: ids["Soy Sauce"], Quantity: 0.05},
		}},
		{Name: "Sea Bass", Course: "Mains", Portions: 2, Ingredients: []recipe.Line{
			{IngredientID: ids["Sea Bass"], Quantity: 1, Unit: "kg"},
		}},
	} {
		require.NoError(t, st.CreateRecipe(ctx, r))
		ids[r.Name+" recipe"] = r.ID
	}
	return st, ids
}

func TestServiceCostRecipe(t *testing.T) {
	st, ids := newTestKitchen(t)
	svc := NewService(st, st, 0)
	assert.Equal(t, DefaultTargetFoodCostPercent, svc.DefaultTarget())

	summary, err := svc.CostRecipe(context.Background(), ids["Sea Bass recipe"], 0)
	require.NoError(t, err)
	assert.Equal(t, 22.49, Round2(summary.CostPerPortion))
	assert.Equal(t, 74.97, Round2(summary.SuggestedPrice))
	assert.Equal(t, 52.48, Round2(summary.GrossProfit))

	summary, err = svc.CostRecipe(context.Background(), ids["Tataki recipe"], 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, summary.FoodCostPercent)
	assert.Equal(t, "L", summary.Lines[1].Unit, "unit falls back to the catalog unit")
	assert.InDelta(t, 0.3*415/0.85+0.4, summary.TotalCost, 1e-9)
}

func TestServiceCostRecipeMissingReferences(t *testing.T) {
	st, ids := newTestKitchen(t)
	svc := NewService(st, st, 30)
	ctx := context.Background()

	_, err := svc.CostRecipe(ctx, "nope", 0)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	require.NoError(t, st.DeleteIngredient(ctx, ids["Soy Sauce"]))

	_, err = svc.CostRecipe(ctx, ids["Tataki recipe"], 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CostAll(ctx, recipe.Filter{}, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceDashboard(t *testing.T) {
	st, _ := newTestKitchen(t)
	svc := NewService(st, st, 30)

	d, err := svc.Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30.0, d.TargetFoodCostPercent)
	assert.Equal(t, 2, d.Summary.TotalRecipes)
	assert.InDelta(t, 30.0, d.Summary.AvgFoodCostPercent, 1e-9)
	require.Len(t, d.Recipes, 2)
	assert.Equal(t, "Tataki", d.Recipes[0].Name)
	require.Len(t, d.ByCourse, 2)
	assert.Equal(t, "Appetizers", d.ByCourse[0].Course)

	_, err = svc.Dashboard(context.Background(), -5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceDashboardEmpty(t *testing.T) {
	st := store.NewMemoryStore()
	d, err := NewService(st, st, 30).Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DashboardSummary{}, d.Summary)
	assert.Empty(t, d.Recipes)
}

func TestServiceCostAllFilter(t *testing.T) {
	st, _ := newTestKitchen(t)
	svc := NewService(st, st, 30)

	out, err := svc.CostAll(context.Background(), recipe.Filter{Course: "mains"}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Sea Bass", out[0].Name)
}

func TestServiceIngredientCosts(t *testing.T) {
	st, _ := newTestKitchen(t)
	costs, summary, err := NewService(st, st, 30).IngredientCosts(context.Background())
	require.NoError(t, err)
	require.Len(t, costs, 3)
	assert.Equal(t, 3, summary.TotalIngredients)
	assert.Equal(t, "Sea Bass", costs[0].Name)
	assert.Equal(t, "BEEF", costs[2].Category)
	assert.InDelta(t, 488.2352941, costs[2].TrueCost(), 1e-6)
}

func TestServiceQuote(t *testing.T) {
	st, ids := newTestKitchen(t)
	svc := NewService(st, st, 30)
	ctx := context.Background()

	q, err := svc.Quote(ctx, QuoteRequest{
		Portions: 2,
		Lines: []LineInput{
			{IngredientID: ids["Sea Bass"], Quantity: 1, UnitPrice: 999},
			{Name: "Lemon", Quantity: 0, UnitPrice: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "quote", q.Name)
	assert.Equal(t, 44.98, q.Lines[0].UnitCost)
	assert.Equal(t, 74.97, Round2(q.SuggestedPrice))

	_, err = svc.Quote(ctx, QuoteRequest{Portions: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Quote(ctx, QuoteRequest{Portions: 1, Lines: []LineInput{{IngredientID: "missing", Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Quote(ctx, QuoteRequest{Portions: 1, Lines: []LineInput{{Name: "x", Quantity: 1, WastagePercent: 120}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// mockCatalog is a mock of the ingredient catalog whose lookups fail.
type mockCatalog struct {
	*store.MemoryStore
	returnError error
}

// GetIngredient mocks the GetIngredient method.
func (m *mockCatalog) GetIngredient(ctx context.Context, id string) (*ingredient.Ingredient, error) {
	return nil, fmt.Errorf("failed to get ingredient: %w", m.returnError)
}

func TestServiceCatalogFailureIsNotMissingReference(t *testing.T) {
	st, ids := newTestKitchen(t)
	connErr := errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
	svc := NewService(&mockCatalog{MemoryStore: st, returnError: connErr}, st, 30)
	ctx := context.Background()

	_, err := svc.CostRecipe(ctx, ids["Sea Bass recipe"], 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, connErr)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.Quote(ctx, QuoteRequest{Portions: 1, Lines: []LineInput{{IngredientID: ids["Sea Bass"], Quantity: 1}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, connErr)
	assert.False(t, errors.Is(err, ErrNotFound))
}
