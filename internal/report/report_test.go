package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenbook/internal/costing"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	seaBass, err := costing.CostRecipe(
		costing.RecipeInput{ID: "r1", Name: "Sea Bass", Course: "Mains", Portions: 2},
		[]costing.LineInput{{Name: "Sea Bass", Quantity: 1, Unit: "kg", UnitPrice: 44.98}},
		30,
	)
	require.NoError(t, err)
	summaries := []*costing.RecipeCostSummary{seaBass}

	costs := []costing.IngredientCost{costing.NewIngredientCost("i1", "Sea Bass", "FISH", 44.98, "kg", 0)}
	return &Report{
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Currency:    "AED",
		Dashboard: &costing.Dashboard{
			TargetFoodCostPercent: 30,
			Summary:               costing.Summarize(summaries),
			ByCourse:              costing.SummarizeByCourse(summaries),
			Recipes:               summaries,
		},
		Ingredients:       costs,
		IngredientSummary: costing.SummarizeIngredients(costs),
	}
}

func TestExportToCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := Export(testReport(t), FormatCSV, "dashboard", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "dashboard_"))
	assert.Equal(t, ".csv", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Total Cost (AED)", records[0][3])
	assert.Equal(t, []string{"Sea Bass", "Mains", "2", "44.98", "22.49", "74.97", "30.00", "52.48", "70.00"}, records[1])
}

func TestExportToJSON(t *testing.T) {
	path, err := Export(testReport(t), FormatJSON, "", t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "costing_"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "AED", decoded["currency"])
	assert.Contains(t, string(data), `"true_cost"`)
	assert.Contains(t, string(data), `"total_recipes": 1`)
}

func TestExportToPDF(t *testing.T) {
	path, err := Export(testReport(t), FormatPDF, "dashboard", filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := Export(testReport(t), "xlsx", "dashboard", t.TempDir())
	assert.Error(t, err)
}

func TestFoodCostBand(t *testing.T) {
	assert.Equal(t, BandGreen, FoodCostBand(18))
	assert.Equal(t, BandGreen, FoodCostBand(25))
	assert.Equal(t, BandYellow, FoodCostBand(30))
	assert.Equal(t, BandYellow, FoodCostBand(35))
	assert.Equal(t, BandRed, FoodCostBand(35.01))
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(testReport(t).Dashboard, "AED")
	assert.Contains(t, out, "Sea Bass")
	assert.Contains(t, out, "74.97")
	assert.Contains(t, out, "AED 149.93")
}
