// Package config reads client configuration from the environment.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the deployment-supplied client configuration.
type Config struct {
	APIURL      string        `env:"TALENT_API_URL,   default=http://localhost:8080"`
	HTTPTimeout time.Duration `env:"TALENT_HTTP_TIMEOUT, default=30s"`
	TokenFile   string        `env:"TALENT_TOKEN_FILE"`
	LogLevel    string        `env:"LOG_LEVEL,        default=info"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
