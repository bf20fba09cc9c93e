package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":6060"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	DB struct {
		Driver       string `env:"DB_DRIVER" envDefault:"sqlite"`
		DSN          string `env:"DB_DSN" envDefault:"./database.db"`
		MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"1"`
		Debug        bool   `env:"DB_DEBUG"`
	}

	Auth struct {
		// Bearer tokens are only checked when a secret is configured.
		JWTSecret string `env:"AUTH_JWT_SECRET"`
		Issuer    string `env:"AUTH_ISSUER"`
	}
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Env = strings.ToLower(cfg.Env)
	cfg.DB.Driver = strings.ToLower(cfg.DB.Driver)
	if cfg.DB.MaxOpenConns < 1 {
		cfg.DB.MaxOpenConns = 1
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}
