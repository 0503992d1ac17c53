package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgconfig "github.com/parasjain182005/Travel-Website/pkg/config"
)

func load(vars map[string]string) (*Config, error) {
	return Load(pkgconfig.WithEnvironment(vars))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "travel-api", cfg.ServiceName)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, DispatchSync, cfg.RatingDispatchMode)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.ElasticsearchURL)
	assert.Equal(t, "travel_tours", cfg.ElasticsearchIndex)
}

func TestLoad_QueuedDispatch(t *testing.T) {
	cfg, err := load(map[string]string{
		"RATING_DISPATCH_MODE": "queued",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
	})
	require.NoError(t, err)
	assert.Equal(t, DispatchQueued, cfg.RatingDispatchMode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_RejectsUnknownDispatchMode(t *testing.T) {
	cfg, err := load(map[string]string{"RATING_DISPATCH_MODE": "eventual"})
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATING_DISPATCH_MODE")
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	_, err := load(map[string]string{"PORT": "70000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_Production_RejectsDefaultSecret(t *testing.T) {
	_, err := load(map[string]string{"ENVIRONMENT": "production"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be explicitly set")
}

func TestLoad_Production_RejectsShortSecret(t *testing.T) {
	_, err := load(map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestLoad_Production_AcceptsStrongSecret(t *testing.T) {
	cfg, err := load(map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  strings.Repeat("s", 40),
	})
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestValidate_RateLimitAndSampling(t *testing.T) {
	cfg, err := load(map[string]string{})
	require.NoError(t, err)

	bad := *cfg
	bad.RateLimitRequests = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.OTelSampleRate = 1.5
	assert.Error(t, bad.Validate())
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := load(map[string]string{"REQUEST_TIMEOUT": "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load travel config")
}
