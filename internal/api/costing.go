package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/costing"
	"kitchenbook/internal/recipe"
)

// CostRecipes handles GET /api/costing/recipes?course=&cuisine=&target=.
func (h *Handler) CostRecipes(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	summaries, err := h.Costing.CostAll(ctx, recipe.Filter{Course: c.Query("course"), Cuisine: c.Query("cuisine")}, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// CostRecipe handles GET /api/costing/recipes/:id?target=.
func (h *Handler) CostRecipe(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	summary, err := h.Costing.CostRecipe(ctx, c.Param("id"), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Dashboard handles GET /api/costing/summary?target=.
func (h *Handler) Dashboard(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	d, err := h.Costing.Dashboard(ctx, target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currency":                 h.Currency,
		"target_food_cost_percent": d.TargetFoodCostPercent,
		"summary":                  d.Summary,
		"by_course":                d.ByCourse,
		"recipes":                  d.Recipes,
	})
}

// IngredientCosts handles GET /api/costing/ingredients.
func (h *Handler) IngredientCosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	costs, summary, err := h.Costing.IngredientCosts(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currency": h.Currency, "summary": summary, "ingredients": costs})
}

// Quote handles POST /api/costing/quote, costing an unsaved recipe.
func (h *Handler) Quote(c *gin.Context) {
	var req costing.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	summary, err := h.Costing.Quote(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
