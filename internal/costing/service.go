package costing

import (
	"context"
	"errors"
	"fmt"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/store"
)

// ErrNotFound is returned when a recipe references an ingredient missing from the catalog.
var ErrNotFound = errors.New("missing reference")

// Catalog is the read side of the ingredient catalog.
type Catalog interface {
	GetIngredient(ctx context.Context, id string) (*ingredient.Ingredient, error)
	ListIngredients(ctx context.Context, filter ingredient.Filter) ([]*ingredient.Ingredient, error)
}

// RecipeBook is the read side of the recipe book.
type RecipeBook interface {
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
	ListRecipes(ctx context.Context, filter recipe.Filter) ([]*recipe.Recipe, error)
}

// Service costs recipes against the current ingredient catalog.
// Nothing it computes is stored.
type Service struct {
	catalog Catalog
	recipes RecipeBook
	target  float64
}

// NewService creates a Service. A non-positive target falls back to
// DefaultTargetFoodCostPercent.
func NewService(catalog Catalog, recipes RecipeBook, targetFoodCostPercent float64) *Service {
	if targetFoodCostPercent <= 0 {
		targetFoodCostPercent = DefaultTargetFoodCostPercent
	}
	return &Service{catalog: catalog, recipes: recipes, target: targetFoodCostPercent}
}

// DefaultTarget returns the configured food-cost target.
func (s *Service) DefaultTarget() float64 {
	return s.target
}

// Dashboard is the recipe-based costing view.
type Dashboard struct {
	TargetFoodCostPercent float64              `json:"target_food_cost_percent"`
	Summary               DashboardSummary     `json:"summary"`
	ByCourse              []CourseSummary      `json:"by_course"`
	Recipes               []*RecipeCostSummary `json:"recipes"`
}

// QuoteRequest is an unsaved recipe costed on demand.
type QuoteRequest struct {
	Name     string      `json:"name"`
	Course   string      `json:"course"`
	Portions int         `json:"portions"`
	Target   float64     `json:"target_food_cost_percent"`
	Lines    []LineInput `json:"lines"`
}

// missingReference marks a catalog lookup that found nothing as ErrNotFound.
// Other failures pass through unchanged.
func missingReference(prefix string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w: %w", prefix, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

func (s *Service) resolveTarget(target float64) float64 {
	if target == 0 {
		return s.target
	}
	return target
}

func (s *Service) catalogIndex(ctx context.Context) (map[string]*ingredient.Ingredient, error) {
	ings, err := s.catalog.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	index := make(map[string]*ingredient.Ingredient, len(ings))
	for _, i := range ings {
		index[i.ID] = i
	}
	return index, nil
}

func lineInputs(r *recipe.Recipe, index map[string]*ingredient.Ingredient) ([]LineInput, error) {
	lines := make([]LineInput, 0, len(r.Ingredients))
	for n, l := range r.Ingredients {
		ing, ok := index[l.IngredientID]
		if !ok {
			return nil, fmt.Errorf("recipe %q line %d: ingredient %q: %w", r.Name, n+1, l.IngredientID, ErrNotFound)
		}
		unit := l.Unit
		if unit == "" {
			unit = ing.Unit
		}
		lines = append(lines, LineInput{
			IngredientID:   ing.ID,
			Name:           ing.Name,
			Quantity:       l.Quantity,
			Unit:           unit,
			UnitPrice:      ing.UnitPrice,
			WastagePercent: ing.WastagePercent,
		})
	}
	return lines, nil
}

func costStored(r *recipe.Recipe, index map[string]*ingredient.Ingredient, target float64) (*RecipeCostSummary, error) {
	lines, err := lineInputs(r, index)
	if err != nil {
		return nil, err
	}
	return CostRecipe(RecipeInput{ID: r.ID, Name: r.Name, Course: r.Course, Portions: r.Portions}, lines, target)
}

// CostRecipe costs a stored recipe. A target of 0 selects the configured default.
func (s *Service) CostRecipe(ctx context.Context, id string, target float64) (*RecipeCostSummary, error) {
	r, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*ingredient.Ingredient, len(r.Ingredients))
	for _, l := range r.Ingredients {
		if _, seen := index[l.IngredientID]; seen {
			continue
		}
		ing, err := s.catalog.GetIngredient(ctx, l.IngredientID)
		if err != nil {
			return nil, missingReference(fmt.Sprintf("recipe %q", r.Name), err)
		}
		index[l.IngredientID] = ing
	}
	return costStored(r, index, s.resolveTarget(target))
}

// CostAll costs every recipe matching filter, in recipe book order.
func (s *Service) CostAll(ctx context.Context, filter recipe.Filter, target float64) ([]*RecipeCostSummary, error) {
	recipes, err := s.recipes.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	index, err := s.catalogIndex(ctx)
	if err != nil {
		return nil, err
	}

	target = s.resolveTarget(target)
	out := make([]*RecipeCostSummary, 0, len(recipes))
	for _, r := range recipes {
		summary, err := costStored(r, index, target)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

// Dashboard costs the whole recipe book and reduces it into dashboard statistics.
func (s *Service) Dashboard(ctx context.Context, target float64) (*Dashboard, error) {
	target = s.resolveTarget(target)
	if target <= 0 {
		return nil, fmt.Errorf("%w: target food cost percent must be greater than zero, got %v", ErrInvalidInput, target)
	}
	summaries, err := s.CostAll(ctx, recipe.Filter{}, target)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TargetFoodCostPercent: target,
		Summary:               Summarize(summaries),
		ByCourse:              SummarizeByCourse(summaries),
		Recipes:               summaries,
	}, nil
}

// IngredientCosts returns the wastage-adjusted cost of every catalog ingredient.
func (s *Service) IngredientCosts(ctx context.Context) ([]IngredientCost, IngredientSummary, error) {
	ings, err := s.catalog.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		return nil, IngredientSummary{}, fmt.Errorf("failed to list ingredients: %w", err)
	}
	costs := make([]IngredientCost, 0, len(ings))
	for _, i := range ings {
		costs = append(costs, NewIngredientCost(i.ID, i.Name, i.Category, i.UnitPrice, i.Unit, i.WastagePercent))
	}
	return costs, SummarizeIngredients(costs), nil
}

// Quote costs an unsaved recipe. Lines that name a catalog ingredient take its
// current name, price and wastage; other lines are costed as supplied.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*RecipeCostSummary, error) {
	lines := make([]LineInput, 0, len(req.Lines))
	for n, l := range req.Lines {
		if l.IngredientID != "" {
			ing, err := s.catalog.GetIngredient(ctx, l.IngredientID)
			if err != nil {
				return nil, missingReference(fmt.Sprintf("quote line %d", n+1), err)
			}
			l.Name = ing.Name
			l.UnitPrice = ing.UnitPrice
			l.WastagePercent = ing.WastagePercent
			if l.Unit == "" {
				l.Unit = ing.Unit
			}
		}
		if l.WastagePercent < 0 || l.WastagePercent > 100 {
			return nil, fmt.Errorf("%w: quote line %d: wastage_percent must be between 0 and 100", ErrInvalidInput, n+1)
		}
		lines = append(lines, l)
	}
	name := req.Name
	if name == "" {
		name = "quote"
	}
	return CostRecipe(RecipeInput{Name: name, Course: req.Course, Portions: req.Portions}, lines, s.resolveTarget(req.Target))
}
