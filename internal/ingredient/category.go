package ingredient

import "strings"

// OtherCategory collects ingredients without a category.
const OtherCategory = "OTHER"

// Categories is the kitchen-section taxonomy, in display order.
var Categories = []string{
	"BEEF",
	"BREAD & OTHER",
	"CAVIAR",
	"CHICKEN",
	"CRESS",
	"DAIRY & EGGS",
	"DRY",
	"DUCK",
	"FISH",
	"FRUIT",
	"HERBS",
	"JAPANESE",
	"PERUVIAN",
	"KOREAN",
	"BALINESE",
	"LAMB",
	"MOLLUSC",
	"PORK",
	"SHELLFISH",
	"SPICES",
	"TRUFFLE",
	"VEGETABLE",
	"OIL / VINEGAR",
}

// genericCategories maps generic supplier groupings onto kitchen sections.
var genericCategories = map[string]string{
	"PROTEIN":   "BEEF",
	"MEAT":      "BEEF",
	"PANTRY":    "BREAD & OTHER",
	"SEASONING": "SPICES",
	"GARNISH":   "HERBS",
	"PRODUCE":   "VEGETABLE",
	"DAIRY":     "DAIRY & EGGS",
	"EGGS":      "DAIRY & EGGS",
	"POULTRY":   "CHICKEN",
	"OIL":       "OIL / VINEGAR",
	"VINEGAR":   "OIL / VINEGAR",
}

// NormalizeCategory maps a category onto the kitchen-section taxonomy.
// Unknown categories are kept upper-cased; an empty one becomes OtherCategory.
func NormalizeCategory(category string) string {
	c := strings.ToUpper(strings.TrimSpace(category))
	if c == "" {
		return OtherCategory
	}
	if mapped, ok := genericCategories[c]; ok {
		return mapped
	}
	return c
}

// CategoryRank returns the display position of a category.
// Categories outside the taxonomy sort after it.
func CategoryRank(category string) int {
	for i, c := range Categories {
		if c == category {
			return i
		}
	}
	return len(Categories)
}
