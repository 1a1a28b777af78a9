package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amiyamandal-dev/newsreader/internal/validator"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Items       ItemsConfig       `mapstructure:"items"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"oneof=sqlite3 postgres"`
	DSN          string `mapstructure:"dsn" validate:"required"` // file path for sqlite3, connection url for postgres
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"min=0"`
}

// CacheConfig contains the badger stats cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"` // empty keeps the cache in memory
	TTL     time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry" validate:"min=1"`
}

// ItemsConfig bounds item pagination
type ItemsConfig struct {
	DefaultBatchSize int `mapstructure:"default_batch_size" validate:"min=1"`
	MaxBatchSize     int `mapstructure:"max_batch_size" validate:"min=1"`
}

// MaintenanceConfig schedules the purge of soft-deleted folders
type MaintenanceConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"min=1"`
	Burst             int `mapstructure:"burst" validate:"min=1"`
}

// CORSConfig contains CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load loads configuration from file and environment variables.
// Priority: ENV vars > config file > defaults. An empty configFile searches
// ./configs and . for config.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// Bind environment variables
	v.SetEnvPrefix("NEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - OK if it doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration. Every key needs a
// default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "./data/news.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", "5m")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiry", "24h")

	// Item defaults
	v.SetDefault("items.default_batch_size", 20)
	v.SetDefault("items.max_batch_size", 200)

	// Maintenance defaults
	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.schedule", "@daily")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Rate limit defaults
	v.SetDefault("rate_limit.requests_per_minute", 1000)
	v.SetDefault("rate_limit.burst", 100)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// validate checks struct tags first, then rules spanning several fields
func validate(cfg *Config) error {
	if err := validator.ValidateStruct(cfg); err != nil {
		return err
	}

	if cfg.Items.DefaultBatchSize > cfg.Items.MaxBatchSize {
		return fmt.Errorf("items.default_batch_size (%d) exceeds items.max_batch_size (%d)",
			cfg.Items.DefaultBatchSize, cfg.Items.MaxBatchSize)
	}

	// golang-migrate keeps one postgres connection for its lock
	if cfg.Database.Driver == "postgres" && cfg.Database.MaxOpenConns < 2 {
		return fmt.Errorf("database.max_open_conns must be at least 2 for postgres")
	}

	return nil
}

// Address returns the listen address of the HTTP server
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
