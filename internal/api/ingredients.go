package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/store"
)

// ListIngredients handles GET /api/ingredients?category=&q=.
func (h *Handler) ListIngredients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	ings, err := h.Store.ListIngredients(ctx, ingredient.Filter{Category: c.Query("category"), Query: c.Query("q")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ings)
}

// GetIngredient handles GET /api/ingredients/:id.
func (h *Handler) GetIngredient(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	i, err := h.Store.GetIngredient(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

// checkIngredient normalises and validates an ingredient and its supplier reference.
func (h *Handler) checkIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	i.Normalize()
	if err := i.Validate(); err != nil {
		return err
	}
	if i.SupplierID != "" {
		if _, err := h.Store.GetSupplier(ctx, i.SupplierID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: unknown supplier_id %q", ingredient.ErrInvalid, i.SupplierID)
			}
			return err
		}
	}
	return nil
}

// CreateIngredient handles POST /api/ingredients.
func (h *Handler) CreateIngredient(c *gin.Context) {
	var i ingredient.Ingredient
	if err := c.ShouldBindJSON(&i); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	i.ID = ""
	if err := h.checkIngredient(ctx, &i); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.CreateIngredient(ctx, &i); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, i)
}

// UpdateIngredient handles PUT /api/ingredients/:id.
func (h *Handler) UpdateIngredient(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetIngredient(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var i ingredient.Ingredient
	if err := c.ShouldBindJSON(&i); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	i.ID = existing.ID
	i.CreatedAt = existing.CreatedAt

	if err := h.checkIngredient(ctx, &i); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Store.UpdateIngredient(ctx, &i); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, i)
}

// DeleteIngredient handles DELETE /api/ingredients/:id. Ingredients used by a recipe are kept.
func (h *Handler) DeleteIngredient(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	recipes, err := h.Store.ListRecipes(ctx, recipe.Filter{})
	if err != nil {
		respondError(c, err)
		return
	}
	for _, r := range recipes {
		for _, l := range r.Ingredients {
			if l.IngredientID == id {
				respondError(c, fmt.Errorf("%w: ingredient is used by recipe %q", errInUse, r.Name))
				return
			}
		}
	}

	if err := h.Store.DeleteIngredient(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
