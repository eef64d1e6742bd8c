package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.SelectionWindow)
	assert.Equal(t, 1500, cfg.DefaultSearchRadius)
	assert.Equal(t, 5*time.Minute, cfg.PlacesCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SELECTION_WINDOW", "6h")
	t.Setenv("DEFAULT_SEARCH_RADIUS", "3000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 6*time.Hour, cfg.SelectionWindow)
	assert.Equal(t, 3000, cfg.DefaultSearchRadius)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("SELECTION_WINDOW", "-1h")
	_, err := Load()
	assert.Error(t, err)
}
