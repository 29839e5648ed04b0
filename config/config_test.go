package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfig_OriginList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestAllowCredentials(t *testing.T) {
	// credentials never pair with a wildcard origin
	cfg := &Config{AllowedOrigins: []string{"*"}}
	assert.False(t, cfg.AllowCredentials())

	cfg = &Config{AllowedOrigins: []string{"https://app.example.com", "*"}}
	assert.False(t, cfg.AllowCredentials())

	cfg = &Config{AllowedOrigins: []string{"https://app.example.com"}}
	assert.True(t, cfg.AllowCredentials())
}
