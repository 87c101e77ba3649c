package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/reference", h.Reference)

	api.GET("/ingredients", h.ListIngredients)
	api.POST("/ingredients", h.CreateIngredient)
	api.GET("/ingredients/:id", h.GetIngredient)
	api.PUT("/ingredients/:id", h.UpdateIngredient)
	api.DELETE("/ingredients/:id", h.DeleteIngredient)

	api.GET("/suppliers", h.ListSuppliers)
	api.POST("/suppliers", h.CreateSupplier)
	api.GET("/suppliers/:id", h.GetSupplier)
	api.PUT("/suppliers/:id", h.UpdateSupplier)
	api.DELETE("/suppliers/:id", h.DeleteSupplier)

	api.GET("/recipes", h.ListRecipes)
	api.POST("/recipes", h.CreateRecipe)
	api.GET("/recipes/:id", h.GetRecipe)
	api.PUT("/recipes/:id", h.UpdateRecipe)
	api.DELETE("/recipes/:id", h.DeleteRecipe)

	api.GET("/costing/recipes", h.CostRecipes)
	api.GET("/costing/recipes/:id", h.CostRecipe)
	api.GET("/costing/summary", h.Dashboard)
	api.GET("/costing/ingredients", h.IngredientCosts)
	api.POST("/costing/quote", h.Quote)

	api.GET("/price-lists", h.PriceLists)
	api.POST("/price-lists/import", h.ImportPriceList)
	api.POST("/price-lists/scan", h.ScanPriceList)
}
