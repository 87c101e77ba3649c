package store

import (
	"context"
	"fmt"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/supplier"
)

var sampleSuppliers = []supplier.Supplier{
	{Name: "Admiral Foodstuff Trading", ShortName: "admir", Email: "julia@admiralisland.com", EmailOrders: true},
	{Name: "AFRICAN & EASTERN", ShortName: "AE", Email: "service@ane.ae", Phone: "+971553007957", SalesRep: "Giulia", SalesRepEmail: "Giuliam@ane.ae", EmailOrders: true},
	{Name: "Barakat Vegetables & Fruits", ShortName: "Barakat", Email: "order@barakatgroup.ae", EmailOrders: true},
}

type sampleIngredient struct {
	name      string
	category  string
	price     float64
	unit      string
	wastage   float64
	supplier  int
	allergens []string
}

var sampleIngredients = []sampleIngredient{
	{"Sea Bass", "FISH", 161.00, "kg", 60, 0, []string{"fish"}},
	{"Yellowfin Tuna", "FISH", 293.00, "kg", 25, 0, []string{"fish"}},
	{"Lobster", "SHELLFISH", 235.00, "kg", 0, 0, []string{"crustacean"}},
	{"Wagyu Cube Roll 9+", "BEEF", 415.00, "kg", 15, 0, nil},
	{"Lamb Rack", "LAMB", 62.00, "kg", 30, 0, nil},
	{"Duck Breast", "DUCK", 85.00, "kg", 20, 0, nil},
	{"Mixed Salad Greens", "VEGETABLE", 28.00, "kg", 15, 2, nil},
	{"Cherry Tomatoes", "VEGETABLE", 18.00, "kg", 10, 2, nil},
	{"Avocado", "FRUIT", 35.00, "kg", 40, 2, nil},
	{"Asparagus", "VEGETABLE", 45.00, "kg", 25, 2, nil},
	{"Shallots", "VEGETABLE", 12.00, "kg", 15, 2, nil},
	{"Butter", "DAIRY & EGGS", 25.00, "kg", 0, 1, []string{"milk"}},
	{"Heavy Cream", "DAIRY & EGGS", 18.00, "L", 5, 1, []string{"milk"}},
	{"Parmesan", "DAIRY & EGGS", 65.00, "kg", 10, 1, []string{"milk"}},
	{"Olive Oil", "OIL / VINEGAR", 22.00, "L", 0, 1, nil},
	{"Soy Sauce", "JAPANESE", 8.00, "L", 0, 1, []string{"soy", "gluten"}},
}

type sampleLine struct {
	ingredient string
	quantity   float64
	unit       string
}

var sampleRecipes = []struct {
	name     string
	course   string
	cuisine  string
	portions int
	lines    []sampleLine
}{
	{"A5 Wagyu Tataki", "Appetizers", "japanese", 4, []sampleLine{
		{"Wagyu Cube Roll 9+", 0.300, "kg"}, {"Soy Sauce", 0.050, "L"}, {"Olive Oil", 0.030, "L"},
		{"Shallots", 0.050, "kg"}, {"Mixed Salad Greens", 0.080, "kg"},
	}},
	{"Grilled Mediterranean Sea Bass", "Mains", "mediterranean", 2, []sampleLine{
		{"Sea Bass", 0.400, "kg"}, {"Asparagus", 0.150, "kg"}, {"Cherry Tomatoes", 0.100, "kg"},
		{"Olive Oil", 0.040, "L"}, {"Butter", 0.030, "kg"},
	}},
	{"Butter Poached Lobster Risotto", "Mains", "italian", 4, []sampleLine{
		{"Lobster", 0.500, "kg"}, {"Heavy Cream", 0.200, "L"}, {"Butter", 0.150, "kg"},
		{"Parmesan", 0.080, "kg"}, {"Shallots", 0.060, "kg"},
	}},
	{"Duck Confit with Orange Glaze", "Mains", "french", 2, []sampleLine{
		{"Duck Breast", 0.350, "kg"}, {"Butter", 0.080, "kg"}, {"Shallots", 0.040, "kg"}, {"Asparagus", 0.120, "kg"},
	}},
	{"Yellowfin Tuna Tartare", "Appetizers", "japanese", 4, []sampleLine{
		{"Yellowfin Tuna", 0.250, "kg"}, {"Avocado", 0.150, "kg"}, {"Soy Sauce", 0.030, "L"}, {"Olive Oil", 0.020, "L"},
	}},
	{"Herb Crusted Lamb Rack", "Mains", "french", 2, []sampleLine{
		{"Lamb Rack", 0.450, "kg"}, {"Butter", 0.060, "kg"}, {"Asparagus", 0.100, "kg"}, {"Cherry Tomatoes", 0.080, "kg"},
	}},
}

// SeedSampleData loads a demonstration kitchen into an empty store.
// It does nothing when the store already holds ingredients.
func SeedSampleData(ctx context.Context, s Store) error {
	existing, err := s.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	supplierIDs := make([]string, len(sampleSuppliers))
	for n := range sampleSuppliers {
		sup := sampleSuppliers[n]
		sup.DeliveryDays = append([]string(nil), supplier.DeliveryDays...)
		if err := s.CreateSupplier(ctx, &sup); err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", sup.Name, err)
		}
		supplierIDs[n] = sup.ID
	}

	ingredientIDs := make(map[string]string, len(sampleIngredients))
	for _, si := range sampleIngredients {
		i := &ingredient.Ingredient{
			Name:           si.name,
			Category:       si.category,
			UnitPrice:      si.price,
			Unit:           si.unit,
			WastagePercent: si.wastage,
			SupplierID:     supplierIDs[si.supplier],
			Allergens:      append([]string(nil), si.allergens...),
		}
		i.Normalize()
		if err := s.CreateIngredient(ctx, i); err != nil {
			return fmt.Errorf("failed to seed ingredient %s: %w", si.name, err)
		}
		ingredientIDs[si.name] = i.ID
	}

	for _, sr := range sampleRecipes {
		r := &recipe.Recipe{
			Name:     sr.name,
			Course:   sr.course,
			Cuisine:  sr.cuisine,
			Portions: sr.portions,
		}
		for _, l := range sr.lines {
			r.Ingredients = append(r.Ingredients, recipe.Line{IngredientID: ingredientIDs[l.ingredient], Quantity: l.quantity, Unit: l.unit})
		}
		r.Normalize()
		if err := s.CreateRecipe(ctx, r); err != nil {
			return fmt.Errorf("failed to seed recipe %s: %w", sr.name, err)
		}
	}
	return nil
}
