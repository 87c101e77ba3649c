package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/supplier"
)

// MemoryStore keeps every record in process memory. Records are copied on
// the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	ingredients map[string]*ingredient.Ingredient
	suppliers   map[string]*supplier.Supplier
	recipes     map[string]*recipe.Recipe
	recipeOrder []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ingredients: make(map[string]*ingredient.Ingredient),
		suppliers:   make(map[string]*supplier.Supplier),
		recipes:     make(map[string]*recipe.Recipe),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func copyIngredient(i *ingredient.Ingredient) *ingredient.Ingredient {
	c := *i
	c.StorageLocations = slices.Clone(i.StorageLocations)
	c.Allergens = slices.Clone(i.Allergens)
	return &c
}

func copySupplier(s *supplier.Supplier) *supplier.Supplier {
	c := *s
	c.DeliveryDays = slices.Clone(s.DeliveryDays)
	return &c
}

func copyRecipe(r *recipe.Recipe) *recipe.Recipe {
	c := *r
	c.Instructions = slices.Clone(r.Instructions)
	c.Ingredients = slices.Clone(r.Ingredients)
	return &c
}

func byName(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// ListIngredients returns matching ingredients ordered by name.
func (s *MemoryStore) ListIngredients(ctx context.Context, filter ingredient.Filter) ([]*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*ingredient.Ingredient{}
	for _, i := range s.ingredients {
		if filter.Matches(i) {
			out = append(out, copyIngredient(i))
		}
	}
	slices.SortFunc(out, func(a, b *ingredient.Ingredient) int { return byName(a.Name, b.Name) })
	return out, nil
}

// GetIngredient retrieves an ingredient by id.
func (s *MemoryStore) GetIngredient(ctx context.Context, id string) (*ingredient.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.ingredients[id]
	if !ok {
		return nil, notFound("ingredient", id)
	}
	return copyIngredient(i), nil
}

// CreateIngredient assigns an id and timestamps and saves the ingredient.
func (s *MemoryStore) CreateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	i.CreatedAt = now()
	i.UpdatedAt = i.CreatedAt
	s.ingredients[i.ID] = copyIngredient(i)
	return nil
}

// UpdateIngredient replaces a stored ingredient.
func (s *MemoryStore) UpdateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ingredients[i.ID]
	if !ok {
		return notFound("ingredient", i.ID)
	}
	i.CreatedAt = existing.CreatedAt
	i.UpdatedAt = now()
	s.ingredients[i.ID] = copyIngredient(i)
	return nil
}

// DeleteIngredient removes an ingredient.
func (s *MemoryStore) DeleteIngredient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		return notFound("ingredient", id)
	}
	delete(s.ingredients, id)
	return nil
}

// ListSuppliers returns suppliers matching query, ordered by name.
func (s *MemoryStore) ListSuppliers(ctx context.Context, query string) ([]*supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*supplier.Supplier{}
	for _, sup := range s.suppliers {
		if sup.Matches(query) {
			out = append(out, copySupplier(sup))
		}
	}
	slices.SortFunc(out, func(a, b *supplier.Supplier) int { return byName(a.Name, b.Name) })
	return out, nil
}

// GetSupplier retrieves a supplier by id.
func (s *MemoryStore) GetSupplier(ctx context.Context, id string) (*supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, notFound("supplier", id)
	}
	return copySupplier(sup), nil
}

// CreateSupplier assigns an id and timestamps and saves the supplier.
func (s *MemoryStore) CreateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	sup.CreatedAt = now()
	sup.UpdatedAt = sup.CreatedAt
	s.suppliers[sup.ID] = copySupplier(sup)
	return nil
}

// UpdateSupplier replaces a stored supplier.
func (s *MemoryStore) UpdateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.suppliers[sup.ID]
	if !ok {
		return notFound("supplier", sup.ID)
	}
	sup.CreatedAt = existing.CreatedAt
	sup.UpdatedAt = now()
	s.suppliers[sup.ID] = copySupplier(sup)
	return nil
}

// DeleteSupplier removes a supplier.
func (s *MemoryStore) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[id]; !ok {
		return notFound("supplier", id)
	}
	delete(s.suppliers, id)
	return nil
}

// ListRecipes returns matching recipes in creation order.
func (s *MemoryStore) ListRecipes(ctx context.Context, filter recipe.Filter) ([]*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*recipe.Recipe{}
	for _, id := range s.recipeOrder {
		r := s.recipes[id]
		if filter.Matches(r) {
			out = append(out, copyRecipe(r))
		}
	}
	return out, nil
}

// GetRecipe retrieves a recipe by id.
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	return copyRecipe(r), nil
}

// CreateRecipe assigns an id and timestamps and saves the recipe.
func (s *MemoryStore) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	if _, exists := s.recipes[r.ID]; !exists {
		s.recipeOrder = append(s.recipeOrder, r.ID)
	}
	s.recipes[r.ID] = copyRecipe(r)
	return nil
}

// UpdateRecipe replaces a stored recipe.
func (s *MemoryStore) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.recipes[r.ID]
	if !ok {
		return notFound("recipe", r.ID)
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = now()
	s.recipes[r.ID] = copyRecipe(r)
	return nil
}

// DeleteRecipe removes a recipe.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return notFound("recipe", id)
	}
	delete(s.recipes, id)
	s.recipeOrder = slices.DeleteFunc(s.recipeOrder, func(v string) bool { return v == id })
	return nil
}
