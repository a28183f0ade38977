package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Load reads a YAML config file. A .env file next to the working directory is
// loaded first, when present, so ${VAR} references can resolve from it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, resolves environment references and
// validates the result. Keys the document sets keep their value, zero
// included. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return finalize(cfg)
}

// Finalize fills the zero fields of cfg from Default, resolves environment
// references and validates the result.
func Finalize(cfg Config) (*Config, error) {
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("merge defaults: %w", err)
	}
	return finalize(cfg)
}

func finalize(cfg Config) (*Config, error) {
	if err := cfg.Source.Caixa.FinalizeNodes("caixa"); err != nil {
		return nil, err
	}
	if err := cfg.Source.Mirror.FinalizeNodes("mirror"); err != nil {
		return nil, err
	}
	cfg.Cache.Redis.URL = substituteEnvVars(cfg.Cache.Redis.URL)
	cfg.Cache.Redis.Password = substituteEnvVars(cfg.Cache.Redis.Password)
	cfg.Nats.URL = substituteEnvVars(cfg.Nats.URL)
	cfg.Nats.Password = substituteEnvVars(cfg.Nats.Password)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}
	if len(cfg.Source.Active().Nodes) == 0 {
		return nil, fmt.Errorf("source %s has no nodes", cfg.Source.Type)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.URL == "" {
		return nil, errors.New("cache backend redis requires cache.redis.url")
	}

	return &cfg, nil
}
