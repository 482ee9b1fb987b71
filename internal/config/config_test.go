package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCORING_SERVICE_URL", "")
	t.Setenv("GEO_SERVICE_URL", "")
	t.Setenv("GATEWAY_URL", "")

	cfg := Load()
	assert.Equal(t, "8084", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.ScoringServiceURL)
	assert.Equal(t, "http://ip-api.com/json", cfg.GeoServiceURL)
	assert.Equal(t, "http://localhost:8084", cfg.GatewayURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCORING_SERVICE_URL", "http://scoring:8000")
	t.Setenv("GATEWAY_URL", "http://gateway:9090")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://scoring:8000", cfg.ScoringServiceURL)
	assert.Equal(t, "http://gateway:9090", cfg.GatewayURL)
}
