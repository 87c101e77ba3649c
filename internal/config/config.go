// Package config loads kitchenbook settings from a config file, a .env file
// and the environment, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"kitchenbook/internal/costing"
	"kitchenbook/internal/store"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Extractor names accepted in Config.Extractor.
const (
	ExtractorNone   = "none"
	ExtractorGemini = "gemini"
	ExtractorLocal  = "local"
)

// S3 holds the bucket used to publish exported reports.
type S3 struct {
	Bucket    string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Endpoint  string `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Region    string `json:"region" yaml:"region" toml:"region"`
	AccessKey string `json:"access_key" yaml:"access_key" toml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	PublicURL string `json:"public_url" yaml:"public_url" toml:"public_url"`
}

// Config represents the application configuration.
type Config struct {
	DatabaseDriver        string   `json:"database_driver" yaml:"database_driver" toml:"database_driver"`
	DatabaseURL           string   `json:"database_url" yaml:"database_url" toml:"database_url"`
	ListenAddr            string   `json:"listen_addr" yaml:"listen_addr" toml:"listen_addr"`
	AllowedOrigins        []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	SeedSampleData        bool     `json:"seed_sample_data" yaml:"seed_sample_data" toml:"seed_sample_data"`
	Extractor             string   `json:"price_list_extractor" yaml:"price_list_extractor" toml:"price_list_extractor"`
	GeminiAPIKey          string   `json:"gemini_api_key" yaml:"gemini_api_key" toml:"gemini_api_key"`
	GeminiModel           string   `json:"gemini_model" yaml:"gemini_model" toml:"gemini_model"`
	LocalLLMURL           string   `json:"local_llm_url" yaml:"local_llm_url" toml:"local_llm_url"`
	LocalLLMModel         string   `json:"local_llm_model" yaml:"local_llm_model" toml:"local_llm_model"`
	ScanArchiveDir        string   `json:"scan_archive_dir" yaml:"scan_archive_dir" toml:"scan_archive_dir"`
	TargetFoodCostPercent float64  `json:"target_food_cost_percent" yaml:"target_food_cost_percent" toml:"target_food_cost_percent"`
	Currency              string   `json:"currency" yaml:"currency" toml:"currency"`
	S3                    S3       `json:"s3" yaml:"s3" toml:"s3"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		DatabaseDriver:        store.DriverMemory,
		ListenAddr:            ":8080",
		AllowedOrigins:        []string{"http://localhost:8081"},
		TargetFoodCostPercent: costing.DefaultTargetFoodCostPercent,
		Currency:              "AED",
	}
}

// Load reads the config file at path, when path is not empty, then applies
// the .env file and environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile decodes a TOML, YAML or JSON file, chosen by extension, over cfg.
func (c *Config) loadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"DATABASE_DRIVER":      &c.DatabaseDriver,
		"DATABASE_URL":         &c.DatabaseURL,
		"LISTEN_ADDR":          &c.ListenAddr,
		"PRICE_LIST_EXTRACTOR": &c.Extractor,
		"GEMINI_API_KEY":       &c.GeminiAPIKey,
		"GEMINI_MODEL":         &c.GeminiModel,
		"LOCAL_LLM_URL":        &c.LocalLLMURL,
		"LOCAL_LLM_MODEL":      &c.LocalLLMModel,
		"SCAN_ARCHIVE_DIR":     &c.ScanArchiveDir,
		"CURRENCY":             &c.Currency,
		"S3_BUCKET":            &c.S3.Bucket,
		"S3_ENDPOINT":          &c.S3.Endpoint,
		"S3_REGION":            &c.S3.Region,
		"S3_ACCESS_KEY":        &c.S3.AccessKey,
		"S3_SECRET_KEY":        &c.S3.SecretKey,
		"S3_PUBLIC_URL":        &c.S3.PublicURL,
	}
	for key, field := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*field = strings.TrimSpace(v)
		}
	}

	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}
	if v, ok := os.LookupEnv("TARGET_FOOD_COST_PERCENT"); ok {
		target, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: TARGET_FOOD_COST_PERCENT: %v", ErrInvalid, err)
		}
		c.TargetFoodCostPercent = target
	}
	if v, ok := os.LookupEnv("SEED_SAMPLE_DATA"); ok {
		seed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: SEED_SAMPLE_DATA: %v", ErrInvalid, err)
		}
		c.SeedSampleData = seed
	}
	return nil
}

// Validate checks the settings the services cannot start without.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case store.DriverMemory:
	case store.DriverPostgres, store.DriverPgx, store.DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the %s driver", ErrInvalid, c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalid, c.DatabaseDriver)
	}
	if c.TargetFoodCostPercent <= 0 {
		return fmt.Errorf("%w: target_food_cost_percent must be greater than zero", ErrInvalid)
	}
	switch c.Extractor {
	case "", ExtractorNone, ExtractorLocal:
	case ExtractorGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: gemini_api_key is required for the gemini extractor", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown price_list_extractor %q", ErrInvalid, c.Extractor)
	}
	return nil
}

// ExtractorKind resolves which price list extractor to run. When none is
// named, Gemini is used if it has a key and the local model if it has a URL.
func (c *Config) ExtractorKind() string {
	if c.Extractor != "" {
		return c.Extractor
	}
	switch {
	case c.GeminiAPIKey != "":
		return ExtractorGemini
	case c.LocalLLMURL != "":
		return ExtractorLocal
	default:
		return ExtractorNone
	}
}
