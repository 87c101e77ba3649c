package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenbook/internal/api"
	"kitchenbook/internal/config"
	"kitchenbook/internal/costing"
	"kitchenbook/internal/store"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	st := store.NewMemoryStore()
	require.NoError(t, store.SeedSampleData(context.Background(), st))

	handler := api.NewHandler(st, costing.NewService(st, st, cfg.TargetFoodCostPercent), nil, cfg.Currency)
	return setupRouter(cfg, handler)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, "/api/recipes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8081", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	r := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSeededDashboard(t *testing.T) {
	r := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, "/api/costing/summary", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "A5 Wagyu Tataki")
	assert.Contains(t, w.Body.String(), `"currency":"AED"`)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("CONFIG_FILE", "")
	assert.Equal(t, "", configPath())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{}`), 0o644))
	assert.Equal(t, "config.json", configPath())

	t.Setenv("CONFIG_FILE", "kitchen.yaml")
	assert.Equal(t, "kitchen.yaml", configPath())
}

func TestNewScanner(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Extractor = config.ExtractorNone
	scanner, closeFn, err := newScanner(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, scanner)
	closeFn()

	cfg.Extractor = config.ExtractorLocal
	scanner, closeFn, err = newScanner(ctx, cfg)
	require.NoError(t, err)
	assert.NotNil(t, scanner)
	closeFn()
}
