package api

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kitchenbook/internal/costing"
	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/pricelist"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/store"
	"kitchenbook/internal/supplier"
)

const (
	dbTimeout      = 5 * time.Second
	extractTimeout = 45 * time.Second
)

var (
	errInUse       = errors.New("record is in use")
	errUnavailable = errors.New("price list scanning is not configured")
)

// Store defines the persistence operations used by the handlers.
type Store interface {
	ingredient.Store
	supplier.Store
	recipe.Store
}

// PriceListScanner extracts price list entries from a price sheet photo.
type PriceListScanner interface {
	Scan(ctx context.Context, imageData []byte) ([]pricelist.Entry, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Store    Store
	Costing  *costing.Service
	Scanner  PriceListScanner
	Currency string
}

// NewHandler creates a new Handler. scanner may be nil, which disables price sheet scanning.
func NewHandler(st Store, costingService *costing.Service, scanner PriceListScanner, currency string) *Handler {
	return &Handler{Store: st, Costing: costingService, Scanner: scanner, Currency: currency}
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	case errors.Is(err, ingredient.ErrInvalid),
		errors.Is(err, supplier.ErrInvalid),
		errors.Is(err, recipe.ErrInvalid),
		errors.Is(err, costing.ErrInvalidInput),
		errors.Is(err, pricelist.ErrMissingColumn),
		errors.Is(err, pricelist.ErrInvalidImage):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, costing.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errInUse):
		status = http.StatusConflict
	case errors.Is(err, pricelist.ErrNotPriceList):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// parseTarget reads the optional target query parameter; 0 selects the configured target.
func parseTarget(c *gin.Context) (float64, bool) {
	raw := strings.TrimSpace(c.Query("target"))
	if raw == "" {
		return 0, true
	}
	target, err := strconv.ParseFloat(raw, 64)
	if err != nil || target <= 0 {
		badRequest(c, "target must be a number greater than zero")
		return 0, false
	}
	return target, true
}

// readFormFile reads the multipart "file" field into memory.
func readFormFile(c *gin.Context) (*multipart.FileHeader, []byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		badRequest(c, "get form err: "+err.Error())
		return nil, nil, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open file err: " + err.Error()})
		return nil, nil, false
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read file err: " + err.Error()})
		return nil, nil, false
	}
	return file, data, true
}

// Health reports that the service is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Reference returns the fixed vocabularies used by the catalog forms.
func (h *Handler) Reference(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":               ingredient.Categories,
		"allergens":                ingredient.Allergens,
		"order_units":              ingredient.OrderUnits,
		"delivery_days":            supplier.DeliveryDays,
		"currency":                 h.Currency,
		"target_food_cost_percent": h.Costing.DefaultTarget(),
	})
}
