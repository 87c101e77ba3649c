// Package pricelist builds supplier price lists from the ingredient catalog
// and feeds supplier price updates back into it.
package pricelist

import (
	"slices"
	"strings"

	"kitchenbook/internal/costing"
	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/supplier"
)

// Entry is one priced item read from a supplier price list.
// A nil WastagePercent leaves the stored wastage unchanged.
type Entry struct {
	Name           string   `json:"name"`
	ProductCode    string   `json:"product_code,omitempty"`
	UnitPrice      float64  `json:"unit_price"`
	Unit           string   `json:"unit,omitempty"`
	WastagePercent *float64 `json:"wastage_percent,omitempty"`
	Category       string   `json:"category,omitempty"`
	PackSize       string   `json:"pack_size,omitempty"`
}

// Row is a price list line for one catalog ingredient.
type Row struct {
	IngredientID   string  `json:"ingredient_id"`
	Name           string  `json:"name"`
	ProductCode    string  `json:"product_code,omitempty"`
	PackSize       string  `json:"pack_size,omitempty"`
	Unit           string  `json:"unit"`
	UnitPrice      float64 `json:"unit_price"`
	WastagePercent float64 `json:"wastage_percent"`
	TrueCost       float64 `json:"true_cost"`
	SupplierID     string  `json:"supplier_id,omitempty"`
	Supplier       string  `json:"supplier,omitempty"`
}

// Section groups price list rows under a kitchen-section category.
type Section struct {
	Category string `json:"category"`
	Rows     []Row  `json:"rows"`
}

// Build groups ingredients by category in taxonomy order, rows sorted by name.
// When supplierID is set only that supplier's ingredients are listed.
func Build(ingredients []*ingredient.Ingredient, suppliers []*supplier.Supplier, supplierID string) []Section {
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}

	byCategory := make(map[string][]Row)
	for _, i := range ingredients {
		if supplierID != "" && i.SupplierID != supplierID {
			continue
		}
		category := ingredient.NormalizeCategory(i.Category)
		byCategory[category] = append(byCategory[category], Row{
			IngredientID:   i.ID,
			Name:           i.Name,
			ProductCode:    i.ProductCode,
			PackSize:       i.PackSize,
			Unit:           i.Unit,
			UnitPrice:      i.UnitPrice,
			WastagePercent: i.WastagePercent,
			TrueCost:       costing.TrueCost(i.UnitPrice, i.WastagePercent),
			SupplierID:     i.SupplierID,
			Supplier:       names[i.SupplierID],
		})
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	slices.SortFunc(categories, func(a, b string) int {
		if ra, rb := ingredient.CategoryRank(a), ingredient.CategoryRank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})

	sections := make([]Section, 0, len(categories))
	for _, c := range categories {
		rows := byCategory[c]
		slices.SortFunc(rows, func(a, b Row) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
		sections = append(sections, Section{Category: c, Rows: rows})
	}
	return sections
}
