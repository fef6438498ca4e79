package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "devshelf", cfg.DBName)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_NAME", "devshelf_test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "devshelf_test", cfg.DBName)
}

func TestValidateProductionRejectsDefaultSecret(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Port:      "8080",
		JWTSecret: "your-secret-key-change-in-production",
		Env:       "production",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateProductionRejectsShortSecret(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Port:       "8080",
		JWTSecret:  "short",
		DBPassword: "a-strong-password",
		Env:        "production",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestValidateProductionRejectsWeakDBPassword(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Port:       "8080",
		JWTSecret:  strings.Repeat("s", 40),
		DBPassword: "password",
		Env:        "production",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateDevelopmentIsLenient(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Port:      "8080",
		JWTSecret: "dev-secret",
		Env:       "development",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresPort(t *testing.T) {
	t.Parallel()
	cfg := &Config{JWTSecret: "x"}
	assert.Error(t, cfg.Validate())
}
