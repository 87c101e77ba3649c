package ingredient

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kitchenbook/internal/validation"
)

// ErrInvalid is wrapped by every validation error in this package.
var ErrInvalid = errors.New("invalid ingredient")

// OrderUnits lists the units an ingredient can be ordered in.
var OrderUnits = []string{"KG", "G", "L", "ML", "EA", "Box", "Case", "Pack"}

// Allergens is the canonical allergen list.
var Allergens = []string{
	"gluten", "crustacean", "eggs", "fish", "peanuts", "soy", "milk",
	"tree-nuts", "celery", "mustard", "sesame", "sulfites", "lupin", "mollusks",
}

// Ingredient represents a purchasable ingredient in the catalog.
type Ingredient struct {
	ID               string    `json:"id"`
	Name             string    `json:"name" binding:"required"`
	Category         string    `json:"category"`
	UnitPrice        float64   `json:"unit_price" binding:"gte=0"`
	Unit             string    `json:"unit" binding:"required"`
	WastagePercent   float64   `json:"wastage_percent" binding:"gte=0,lte=100"`
	SupplierID       string    `json:"supplier_id,omitempty"`
	ProductCode      string    `json:"product_code,omitempty"`
	PackSize         string    `json:"pack_size,omitempty"`
	OrderUnit        string    `json:"order_unit,omitempty"`
	TaxPercent       float64   `json:"tax_percent" binding:"gte=0"`
	ParLevel         float64   `json:"par_level" binding:"gte=0"`
	StorageLocations []string  `json:"storage_locations"`
	Allergens        []string  `json:"allergens"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Filter narrows an ingredient listing. Zero values match everything.
type Filter struct {
	Category string
	Query    string
}

// Matches reports whether the ingredient passes the filter.
func (f Filter) Matches(i *Ingredient) bool {
	if f.Category != "" && i.Category != NormalizeCategory(f.Category) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(i.Name), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

// Store defines the interface for ingredient data operations.
type Store interface {
	ListIngredients(ctx context.Context, filter Filter) ([]*Ingredient, error)
	GetIngredient(ctx context.Context, id string) (*Ingredient, error)
	CreateIngredient(ctx context.Context, i *Ingredient) error
	UpdateIngredient(ctx context.Context, i *Ingredient) error
	DeleteIngredient(ctx context.Context, id string) error
}

// Normalize trims text fields and maps the category onto the kitchen-section taxonomy.
func (i *Ingredient) Normalize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Unit = strings.TrimSpace(i.Unit)
	i.ProductCode = strings.TrimSpace(i.ProductCode)
	i.Category = NormalizeCategory(i.Category)
	for n, a := range i.Allergens {
		i.Allergens[n] = strings.ToLower(strings.TrimSpace(a))
	}
	if i.StorageLocations == nil {
		i.StorageLocations = []string{}
	}
	if i.Allergens == nil {
		i.Allergens = []string{}
	}
}

// Validate checks the binding tags, which the API also enforces on decode,
// then the order unit and allergen vocabularies.
func (i *Ingredient) Validate() error {
	if err := validation.Struct(i, ErrInvalid); err != nil {
		return err
	}
	if i.OrderUnit != "" && !slices.Contains(OrderUnits, i.OrderUnit) {
		return fmt.Errorf("%w: unknown order_unit %q", ErrInvalid, i.OrderUnit)
	}
	for _, a := range i.Allergens {
		if !slices.Contains(Allergens, strings.ToLower(a)) {
			return fmt.Errorf("%w: unknown allergen %q", ErrInvalid, a)
		}
	}
	return nil
}
