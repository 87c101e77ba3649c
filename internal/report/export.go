// Package report renders the costing dashboard for the terminal and exports
// it as CSV, JSON or PDF files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"kitchenbook/internal/costing"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// Formats lists every supported export format.
var Formats = []string{FormatCSV, FormatJSON, FormatPDF}

// Report is the exported view of the kitchen's costing.
type Report struct {
	GeneratedAt       time.Time                 `json:"generated_at"`
	Currency          string                    `json:"currency"`
	Dashboard         *costing.Dashboard        `json:"dashboard"`
	Ingredients       []costing.IngredientCost  `json:"ingredients"`
	IngredientSummary costing.IngredientSummary `json:"ingredient_summary"`
}

// Export writes the report in the given format into dir and returns the absolute file path.
func Export(r *Report, format, name, dir string) (string, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(r, name, dir)
	case FormatJSON:
		return ExportToJSON(r, name, dir)
	case FormatPDF:
		return ExportToPDF(r, name, dir)
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

func money(v float64) string {
	return strconv.FormatFloat(costing.Round2(v), 'f', 2, 64)
}

// ExportToCSV writes one row per costed recipe.
func ExportToCSV(r *Report, name, dir string) (string, error) {
	outputFilename, err := generateFilename(name, dir, FormatCSV)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	headers := []string{
		"Recipe", "Course", "Portions",
		fmt.Sprintf("Total Cost (%s)", r.Currency),
		fmt.Sprintf("Cost per Portion (%s)", r.Currency),
		fmt.Sprintf("Suggested Price (%s)", r.Currency),
		"Food Cost %",
		fmt.Sprintf("Gross Profit (%s)", r.Currency),
		"Gross Profit %",
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, s := range r.Dashboard.Recipes {
		record := []string{
			s.Name,
			s.Course,
			strconv.Itoa(s.Portions),
			money(s.TotalCost),
			money(s.CostPerPortion),
			money(s.SuggestedPrice),
			money(s.FoodCostPercent),
			money(s.GrossProfit),
			money(s.GrossProfitPercent),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// ExportToJSON writes the whole report as indented JSON.
func ExportToJSON(r *Report, name, dir string) (string, error) {
	outputFilename, err := generateFilename(name, dir, FormatJSON)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF writes the summary cards followed by one costing sheet per recipe.
func ExportToPDF(r *Report, name, dir string) (string, error) {
	outputFilename, err := generateFilename(name, dir, FormatPDF)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
	}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Recipe Costing Dashboard"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Generated %s, target food cost %s%%",
		r.GeneratedAt.Format("2006-01-02 15:04"), money(r.Dashboard.TargetFoodCostPercent))), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	sectionTitle("Summary")
	summary := r.Dashboard.Summary
	cards := [][2]string{
		{"Total recipes", strconv.Itoa(summary.TotalRecipes)},
		{"Average food cost", money(summary.AvgFoodCostPercent) + "%"},
		{"Average gross profit", money(summary.AvgGrossProfitPercent) + "%"},
		{"Potential revenue", r.Currency + " " + money(summary.TotalPotentialRevenue)},
	}
	for _, card := range cards {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(60, 7, tr(card[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, tr(card[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	sectionTitle("Recipes")
	widths := []float64{60, 25, 20, 28, 28, 29}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range []string{"Recipe", "Course", "Portions", "Cost/Portion", "Price", "Gross Profit"} {
		pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, s := range r.Dashboard.Recipes {
		cells := []string{s.Name, s.Course, strconv.Itoa(s.Portions), money(s.CostPerPortion), money(s.SuggestedPrice), money(s.GrossProfit)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(c), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	for _, s := range r.Dashboard.Recipes {
		pdf.AddPage()
		sectionTitle(fmt.Sprintf("%s (%s, %d portions)", s.Name, s.Course, s.Portions))
		lineWidths := []float64{60, 22, 15, 28, 20, 45}
		pdf.SetFont("Arial", "B", 9)
		for i, h := range []string{"Ingredient", "Quantity", "Unit", "Unit Cost", "Wastage", "Line Cost"} {
			pdf.CellFormat(lineWidths[i], 7, tr(h), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, l := range s.Lines {
			cells := []string{
				l.Ingredient,
				strconv.FormatFloat(l.Quantity, 'f', -1, 64),
				l.Unit,
				money(l.UnitCost),
				money(l.WastagePercent) + "%",
				money(l.LineCost),
			}
			for i, c := range cells {
				pdf.CellFormat(lineWidths[i], 6, tr(c), "", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(190, 6, tr(fmt.Sprintf("Total cost %s %s, cost per portion %s, suggested price %s, gross profit %s",
			r.Currency, money(s.TotalCost), money(s.CostPerPortion), money(s.SuggestedPrice), money(s.GrossProfit))), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if base == "" {
		base = "costing"
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
