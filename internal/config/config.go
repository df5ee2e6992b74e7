package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                 int    `env:"PORT" envDefault:"8080"`
	DatabaseURL          string `env:"DATABASE_URL,required"`
	RedisURL             string `env:"REDIS_URL,required"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir            string `env:"STATIC_DIR" envDefault:"static"`
	LoginPath            string `env:"LOGIN_PATH" envDefault:"/login"`
	LoginAttemptsPerMin  int    `env:"LOGIN_ATTEMPTS_PER_MIN" envDefault:"10"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.LoginAttemptsPerMin <= 0 {
		return fmt.Errorf("LOGIN_ATTEMPTS_PER_MIN must be positive")
	}

	if isProduction {
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
