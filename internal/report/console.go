package report

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"kitchenbook/internal/costing"
)

// Food-cost bands used to colour percentages.
const (
	BandGreen  = "green"
	BandYellow = "yellow"
	BandRed    = "red"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
)

// FoodCostBand classifies a food-cost percentage: up to 25 is green, up to 35 yellow, above that red.
func FoodCostBand(percent float64) string {
	switch {
	case percent <= 25:
		return BandGreen
	case percent <= 35:
		return BandYellow
	default:
		return BandRed
	}
}

func colorPercent(percent float64) string {
	text := money(percent) + "%"
	switch FoodCostBand(percent) {
	case BandGreen:
		return green(text)
	case BandYellow:
		return yellow(text)
	default:
		return red(text)
	}
}

// RenderDashboard renders the summary cards and the recipe table.
func RenderDashboard(d *costing.Dashboard, currency string) string {
	s := d.Summary
	cards := pterm.TableData{
		{"Recipes", "Avg Food Cost", "Avg Gross Profit", "Potential Revenue"},
		{
			strconv.Itoa(s.TotalRecipes),
			colorPercent(s.AvgFoodCostPercent),
			money(s.AvgGrossProfitPercent) + "%",
			currency + " " + money(s.TotalPotentialRevenue),
		},
	}
	summary, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(cards).
		Srender()

	rows := pterm.TableData{{"Recipe", "Course", "Portions", "Cost/Portion", "Price", "Food Cost", "Gross Profit"}}
	for _, r := range d.Recipes {
		rows = append(rows, []string{
			pterm.FgMagenta.Sprint(r.Name),
			r.Course,
			strconv.Itoa(r.Portions),
			money(r.CostPerPortion),
			money(r.SuggestedPrice),
			colorPercent(r.FoodCostPercent),
			money(r.GrossProfit),
		})
	}
	recipes, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(rows).
		Srender()

	courses := ""
	for _, c := range d.ByCourse {
		courses += fmt.Sprintf("%s: %d recipes, revenue %s %s\n",
			pterm.FgYellow.Sprint(c.Course), c.TotalRecipes, currency, money(c.TotalPotentialRevenue))
	}

	return summary + "\n" + recipes + "\n" + courses
}

// LogInfo prints an informational message.
func LogInfo(format string, a ...any) {
	pterm.Info.Printfln(format, a...)
}

// LogSuccess prints a success message.
func LogSuccess(format string, a ...any) {
	pterm.Success.Printfln(format, a...)
}

// LogWarning prints a warning.
func LogWarning(format string, a ...any) {
	pterm.Warning.Printfln(format, a...)
}

// LogError prints an error.
func LogError(format string, a ...any) {
	pterm.Error.Printfln(format, a...)
}
