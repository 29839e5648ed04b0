package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	TokenSecret    []byte
	Addr           string
	AllowedOrigins []string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TokenSecret: []byte(os.Getenv("TOKEN_SECRET")),
		Addr:        os.Getenv("ADDR"),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	} else {
		cfg.AllowedOrigins = []string{"*"}
	}

	return cfg, nil
}

// AllowCredentials reports whether CORS responses may carry credentials.
// Browsers reject credentialed responses for a wildcard origin, so
// credentials require an explicit origin list.
func (c *Config) AllowCredentials() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return false
		}
	}
	return true
}
