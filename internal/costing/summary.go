package costing

// DashboardSummary aggregates costed recipes for the dashboard cards.
// An empty collection yields zero averages, never NaN.
type DashboardSummary struct {
	TotalRecipes          int     `json:"total_recipes"`
	AvgFoodCostPercent    float64 `json:"avg_food_cost_percent"`
	AvgGrossProfitPercent float64 `json:"avg_gross_profit_percent"`
	TotalPotentialRevenue float64 `json:"total_potential_revenue"`
}

// CourseSummary is a DashboardSummary restricted to one course.
type CourseSummary struct {
	Course string `json:"course"`
	DashboardSummary
}

// IngredientSummary aggregates the ingredient-based costing view.
type IngredientSummary struct {
	TotalIngredients  int     `json:"total_ingredients"`
	AvgWastagePercent float64 `json:"avg_wastage_percent"`
	// AvgUpliftPercent is the mean increase of true cost over unit price,
	// taken over ingredients with a non-zero unit price.
	AvgUpliftPercent float64 `json:"avg_uplift_percent"`
}

// Summarize reduces costed recipes into dashboard statistics.
func Summarize(summaries []*RecipeCostSummary) DashboardSummary {
	var out DashboardSummary
	var foodCost, grossProfit float64
	for _, s := range summaries {
		if s == nil {
			continue
		}
		out.TotalRecipes++
		foodCost += s.FoodCostPercent
		grossProfit += s.GrossProfitPercent
		out.TotalPotentialRevenue += s.SuggestedPrice * float64(s.Portions)
	}
	if out.TotalRecipes == 0 {
		return out
	}
	out.AvgFoodCostPercent = foodCost / float64(out.TotalRecipes)
	out.AvgGrossProfitPercent = grossProfit / float64(out.TotalRecipes)
	return out
}

// SummarizeByCourse groups summaries by course, in order of first appearance.
func SummarizeByCourse(summaries []*RecipeCostSummary) []CourseSummary {
	var order []string
	byCourse := make(map[string][]*RecipeCostSummary)
	for _, s := range summaries {
		if s == nil {
			continue
		}
		if _, seen := byCourse[s.Course]; !seen {
			order = append(order, s.Course)
		}
		byCourse[s.Course] = append(byCourse[s.Course], s)
	}

	out := make([]CourseSummary, 0, len(order))
	for _, course := range order {
		out = append(out, CourseSummary{Course: course, DashboardSummary: Summarize(byCourse[course])})
	}
	return out
}

// SummarizeIngredients reduces ingredient costs into catalog statistics.
func SummarizeIngredients(costs []IngredientCost) IngredientSummary {
	out := IngredientSummary{TotalIngredients: len(costs)}
	if len(costs) == 0 {
		return out
	}

	var wastage, uplift float64
	priced := 0
	for _, c := range costs {
		wastage += c.WastagePercent
		if c.UnitPrice > 0 {
			uplift += (c.TrueCost()/c.UnitPrice - 1) * 100
			priced++
		}
	}
	out.AvgWastagePercent = wastage / float64(len(costs))
	if priced > 0 {
		out.AvgUpliftPercent = uplift / float64(priced)
	}
	return out
}
