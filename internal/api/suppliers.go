package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/supplier"
)

// ListSuppliers handles GET /api/suppliers?q=.
func (h *Handler) ListSuppliers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	suppliers, err := h.Store.ListSuppliers(ctx, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/suppliers/:id.
func (h *Handler) GetSupplier(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	s, err := h.Store.GetSupplier(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// CreateSupplier handles POST /api/suppliers.
func (h *Handler) CreateSupplier(c *gin.Context) {
	var s supplier.Supplier
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	s.ID = ""
	s.Normalize()
	if err := s.Validate(); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := h.Store.CreateSupplier(ctx, &s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// UpdateSupplier handles PUT /api/suppliers/:id.
func (h *Handler) UpdateSupplier(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	existing, err := h.Store.GetSupplier(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var s supplier.Supplier
	if err := c.ShouldBindJSON(&s); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	s.ID = existing.ID
	s.CreatedAt = existing.CreatedAt
	s.Normalize()
	if err := s.Validate(); err != nil {
		respondError(c, err)
		return
	}

	if err := h.Store.UpdateSupplier(ctx, &s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSupplier handles DELETE /api/suppliers/:id. Suppliers still assigned to ingredients are kept.
func (h *Handler) DeleteSupplier(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	id := c.Param("id")
	ings, err := h.Store.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		respondError(c, err)
		return
	}
	for _, i := range ings {
		if i.SupplierID == id {
			respondError(c, fmt.Errorf("%w: supplier is assigned to ingredient %q", errInUse, i.Name))
			return
		}
	}

	if err := h.Store.DeleteSupplier(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
