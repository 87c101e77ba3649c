package pricelist

import (
	"context"
	"fmt"
	"strings"

	"kitchenbook/internal/ingredient"
)

// Change describes what applying one entry did to the catalog.
type Change struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Action       string  `json:"action"`
	OldPrice     float64 `json:"old_price"`
	NewPrice     float64 `json:"new_price"`
}

// Report summarises an import.
type Report struct {
	Updated   int        `json:"updated"`
	Created   int        `json:"created"`
	Unchanged int        `json:"unchanged"`
	Changes   []Change   `json:"changes"`
	Errors    []RowError `json:"errors"`
}

const (
	actionCreated   = "created"
	actionUpdated   = "updated"
	actionUnchanged = "unchanged"
)

// Apply writes price list entries into the catalog. Entries match an existing
// ingredient by product code, then by case-insensitive name; unmatched entries
// are created. Matched and created ingredients are assigned to supplierID when
// it is set.
func Apply(ctx context.Context, catalog ingredient.Store, entries []Entry, supplierID string) (*Report, error) {
	existing, err := catalog.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	byCode := make(map[string]*ingredient.Ingredient)
	byName := make(map[string]*ingredient.Ingredient)
	for _, i := range existing {
		if i.ProductCode != "" {
			byCode[strings.ToLower(i.ProductCode)] = i
		}
		byName[strings.ToLower(i.Name)] = i
	}

	report := &Report{Changes: []Change{}, Errors: []RowError{}}
	for n, e := range entries {
		var match *ingredient.Ingredient
		if e.ProductCode != "" {
			match = byCode[strings.ToLower(e.ProductCode)]
		}
		if match == nil {
			match = byName[strings.ToLower(strings.TrimSpace(e.Name))]
		}

		if match == nil {
			i := &ingredient.Ingredient{
				Name:        e.Name,
				Category:    e.Category,
				UnitPrice:   e.UnitPrice,
				Unit:        e.Unit,
				SupplierID:  supplierID,
				ProductCode: e.ProductCode,
				PackSize:    e.PackSize,
			}
			if i.Unit == "" {
				i.Unit = "EA"
			}
			if e.WastagePercent != nil {
				i.WastagePercent = *e.WastagePercent
			}
			i.Normalize()
			if err := i.Validate(); err != nil {
				report.Errors = append(report.Errors, RowError{Line: n + 1, Message: err.Error()})
				continue
			}
			if err := catalog.CreateIngredient(ctx, i); err != nil {
				return report, fmt.Errorf("failed to create ingredient %q: %w", i.Name, err)
			}
			byName[strings.ToLower(i.Name)] = i
			if i.ProductCode != "" {
				byCode[strings.ToLower(i.ProductCode)] = i
			}
			report.Created++
			report.Changes = append(report.Changes, Change{IngredientID: i.ID, Name: i.Name, Action: actionCreated, NewPrice: i.UnitPrice})
			continue
		}

		updated := *match
		oldPrice := updated.UnitPrice
		changed := updated.UnitPrice != e.UnitPrice
		updated.UnitPrice = e.UnitPrice
		if e.WastagePercent != nil && *e.WastagePercent != updated.WastagePercent {
			updated.WastagePercent = *e.WastagePercent
			changed = true
		}
		if e.ProductCode != "" && updated.ProductCode == "" {
			updated.ProductCode = e.ProductCode
			changed = true
		}
		if supplierID != "" && updated.SupplierID != supplierID {
			updated.SupplierID = supplierID
			changed = true
		}
		if !changed {
			report.Unchanged++
			report.Changes = append(report.Changes, Change{IngredientID: match.ID, Name: match.Name, Action: actionUnchanged, OldPrice: oldPrice, NewPrice: oldPrice})
			continue
		}
		if err := updated.Validate(); err != nil {
			report.Errors = append(report.Errors, RowError{Line: n + 1, Message: err.Error()})
			continue
		}
		if err := catalog.UpdateIngredient(ctx, &updated); err != nil {
			return report, fmt.Errorf("failed to update ingredient %q: %w", updated.Name, err)
		}
		byName[strings.ToLower(updated.Name)] = &updated
		if updated.ProductCode != "" {
			byCode[strings.ToLower(updated.ProductCode)] = &updated
		}
		match = &updated
		report.Updated++
		report.Changes = append(report.Changes, Change{IngredientID: match.ID, Name: match.Name, Action: actionUpdated, OldPrice: oldPrice, NewPrice: match.UnitPrice})
	}
	return report, nil
}
