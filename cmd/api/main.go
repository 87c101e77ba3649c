package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"kitchenbook/internal/api"
	"kitchenbook/internal/config"
	"kitchenbook/internal/costing"
	"kitchenbook/internal/platform/gemini"
	"kitchenbook/internal/platform/localllm"
	"kitchenbook/internal/pricelist"
	"kitchenbook/internal/store"
)

// configPath returns CONFIG_FILE, falling back to config.json when it exists.
func configPath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat("config.json"); err == nil {
		return "config.json"
	}
	return ""
}

// newScanner builds the price list scanner for the configured extractor.
// It returns a nil scanner when scanning is disabled.
func newScanner(ctx context.Context, cfg *config.Config) (api.PriceListScanner, func(), error) {
	noop := func() {}
	switch cfg.ExtractorKind() {
	case config.ExtractorGemini:
		geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, fmt.Errorf("error creating gemini client: %w", err)
		}
		closeFn := func() {
			if err := geminiClient.Close(); err != nil {
				log.Printf("Error closing gemini client: %v", err)
			}
		}
		return pricelist.NewScanner(geminiClient, cfg.ScanArchiveDir), closeFn, nil
	case config.ExtractorLocal:
		localLLMClient := localllm.NewClient(cfg.LocalLLMURL, cfg.LocalLLMModel)
		return pricelist.NewScanner(localLLMClient, cfg.ScanArchiveDir), noop, nil
	default:
		return nil, noop, nil
	}
}

// setupRouter wires CORS and every route onto a new engine.
func setupRouter(cfg *config.Config, handler *api.Handler) *gin.Engine {
	r := gin.Default()

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(r)
	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	dbStore, err := store.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Errorf("error opening %s store: %w", cfg.DatabaseDriver, err))
	}
	defer dbStore.Close()

	if cfg.SeedSampleData {
		if err := store.SeedSampleData(ctx, dbStore); err != nil {
			panic(fmt.Errorf("error seeding sample data: %w", err))
		}
	}

	scanner, closeScanner, err := newScanner(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer closeScanner()
	if scanner == nil {
		log.Printf("Price list scanning disabled")
	}

	costingService := costing.NewService(dbStore, dbStore, cfg.TargetFoodCostPercent)
	handler := api.NewHandler(dbStore, costingService, scanner, cfg.Currency)

	r := setupRouter(cfg, handler)
	log.Printf("Listening on %s (%s store, target food cost %.0f%%)", cfg.ListenAddr, cfg.DatabaseDriver, costingService.DefaultTarget())
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
