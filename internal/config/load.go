package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SIRD_SERVER_PORT.
const EnvPrefix = "SIRD"

// Default values applied before any file or environment source.
var defaults = map[string]any{
	"server.port":                  8080,
	"server.log_level":             "info",
	"database.driver":              DriverMemory,
	"database.url":                 "",
	"auth.jwt_secret":              "",
	"auth.token_lifetime_minutes":  60,
	"simulation.worker_count":      4,
	"simulation.queue_size":        64,
	"simulation.max_batch_size":    50,
	"simulation.max_duration_days": 36500,
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	cfg, err := unmarshal()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDatabase loads and validates only the database section. Tools that do
// not serve HTTP use it so they need no auth secret.
func LoadDatabase() (*DatabaseConfig, error) {
	cfg, err := unmarshal()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg.Database); err != nil {
		return nil, fmt.Errorf("database config validation failed: %w", err)
	}

	return &cfg.Database, nil
}

// LoadSimulation loads and validates only the simulation section.
func LoadSimulation() (*SimulationConfig, error) {
	cfg, err := unmarshal()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg.Simulation); err != nil {
		return nil, fmt.Errorf("simulation config validation failed: %w", err)
	}

	return &cfg.Simulation, nil
}

func unmarshal() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func newViper() (*viper.Viper, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}
