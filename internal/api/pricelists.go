package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/pricelist"
	"kitchenbook/internal/store"
	"kitchenbook/internal/supplier"
)

var allowedImageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// PriceLists handles GET /api/price-lists?supplier_id=.
func (h *Handler) PriceLists(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	ings, err := h.Store.ListIngredients(ctx, ingredient.Filter{})
	if err != nil {
		respondError(c, err)
		return
	}
	suppliers, err := h.Store.ListSuppliers(ctx, "")
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currency": h.Currency,
		"sections": pricelist.Build(ings, suppliers, c.Query("supplier_id")),
	})
}

// checkSupplier verifies the optional supplier_id query parameter.
func (h *Handler) checkSupplier(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if _, err := h.Store.GetSupplier(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: unknown supplier_id %q", supplier.ErrInvalid, id)
		}
		return err
	}
	return nil
}

// ImportPriceList handles POST /api/price-lists/import?supplier_id=, a multipart CSV upload.
func (h *Handler) ImportPriceList(c *gin.Context) {
	file, data, ok := readFormFile(c)
	if !ok {
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".csv" && ext != ".txt" {
		badRequest(c, "Invalid file type. Only CSV price lists are allowed.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	supplierID := c.Query("supplier_id")
	if err := h.checkSupplier(ctx, supplierID); err != nil {
		respondError(c, err)
		return
	}

	entries, rowErrors, err := pricelist.ParseCSV(bytes.NewReader(data))
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := pricelist.Apply(ctx, h.Store, entries, supplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	report.Errors = append(rowErrors, report.Errors...)
	log.Printf("Imported price list %s: %d updated, %d created, %d rejected", file.Filename, report.Updated, report.Created, len(report.Errors))
	c.JSON(http.StatusOK, report)
}

// ScanPriceList handles POST /api/price-lists/scan?supplier_id=&apply=, a multipart
// image of a price sheet or invoice. With apply=true the entries are written to the catalog.
func (h *Handler) ScanPriceList(c *gin.Context) {
	if h.Scanner == nil {
		respondError(c, errUnavailable)
		return
	}

	file, data, ok := readFormFile(c)
	if !ok {
		return
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		badRequest(c, "Invalid file type. Only JPEG, JPG, and PNG images are allowed.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()

	supplierID := c.Query("supplier_id")
	if err := h.checkSupplier(ctx, supplierID); err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.Scanner.Scan(ctx, data)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("apply") != "true" {
		c.JSON(http.StatusOK, gin.H{"entries": entries})
		return
	}

	report, err := pricelist.Apply(ctx, h.Store, entries, supplierID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "report": report})
}
