package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and configures the history storage backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=memory postgres"`
	// URL is required when Driver is postgres.
	URL string `mapstructure:"url" validate:"required_if=Driver postgres"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SimulationConfig bounds the work a single request can trigger.
type SimulationConfig struct {
	WorkerCount     int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize       int `mapstructure:"queue_size" validate:"required,gt=0"`
	MaxBatchSize    int `mapstructure:"max_batch_size" validate:"required,gt=0"`
	MaxDurationDays int `mapstructure:"max_duration_days" validate:"required,gt=0"`
}
