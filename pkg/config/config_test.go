package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Origins  []string      `env:"TEST_CFG_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	Timeout  time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"5s"`
	Featured bool          `env:"TEST_CFG_FEATURED" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.Featured)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("TEST_CFG_FEATURED", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.Origins)
	assert.True(t, cfg.Featured)
}

func TestLoad_WithPrefixAndEnvironment(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg,
		WithPrefix("APP_"),
		WithEnvironment(map[string]string{"APP_TEST_CFG_PORT": "7000"}),
	)

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}

type requiredConfig struct {
	Secret string `env:"TEST_CFG_SECRET,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg, WithEnvironment(map[string]string{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	assert.Error(t, Load(&cfg))
}
