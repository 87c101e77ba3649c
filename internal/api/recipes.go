package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/recipe"
	"kitchenbook/internal/store"
)

// ListRecipes handles GET /api/recipes?course=&cuisine=.
func (h *Handler) ListRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	recipes, err := h.Store.ListRecipes(ctx, recipe.Filter{Course: c.Query("course"), Cuisine: c.Query("cuisine")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles GET /api/recipes/:id.
func (h *Handler) GetRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	r, err := h.Store.GetRecipe(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// checkRecipe normalises and validates a recipe and makes sure every line
// references a catalog ingredient.
func (h *Handler) checkRecipe(ctx context.Context, r *recipe.Recipe) error {
	r.Normalize()
	if err := r.Validate(); err != nil {
		return err
	}
	for n, l := range r.Ingredients {
		if _, err := h.Store.GetIngredient(ctx, l.IngredientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: ingredient line %d references unknown ingredient %q", recipe.ErrInvalid, n+1, l.IngredientID)
			}
			return err
		}
	}
	return nil
}

// CreateRecipe handles POST /api/recipes.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	r.ID = ""
	if err := h.checkRecipe(ctx, &r); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.CreateRecipe(ctx, &r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRecipe handles PUT /api/recipes/:id.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetRecipe(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var r recipe.Recipe
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt

	if err := h.checkRecipe(ctx, &r); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.UpdateRecipe(ctx, &r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRecipe handles DELETE /api/recipes/:id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Store.DeleteRecipe(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
