package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds environment-driven runtime settings.
type Config struct {
	// HTTP fetch behaviour towards the portals
	HTTP struct {
		// User-Agent header sent with every request
		UserAgent string `env:"SURVEY_USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15"`

		// Minimum pause between two requests to the same site
		RequestInterval time.Duration `env:"SURVEY_REQUEST_INTERVAL" envDefault:"1200ms"`

		// Per-request timeout
		RequestTimeout time.Duration `env:"SURVEY_REQUEST_TIMEOUT" envDefault:"30s"`
	}

	// Storage configuration
	Storage struct {
		// Path of the SQLite snapshot database
		DBPath string `env:"SURVEY_DB_PATH" envDefault:"database/rentsurvey.db"`
	}

	// API server configuration
	Server struct {
		Port int `env:"SURVEY_SERVER_PORT" envDefault:"5260"`
	}
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
