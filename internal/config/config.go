// Package config provides configuration management for the field help text
// service.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (server.port → SERVER_PORT, storage.driver → STORAGE_DRIVER)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers for field instance configuration records.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	BasePath        string        `mapstructure:"base_path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// CatalogConfig points at the YAML entity/field metadata catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig selects where field instance configs are persisted.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`

	// SeedFromCatalog inserts catalog instance configs that the store does
	// not have yet. Existing rows are never overwritten.
	SeedFromCatalog bool `mapstructure:"seed_from_catalog"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`

	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
// Priority: DATABASE_URL > constructed from individual fields.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslmode,
	)
}

// SQLiteConfig contains the embedded database settings.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// SecurityConfig guards the admin pages.
type SecurityConfig struct {
	AuthEnabled bool   `mapstructure:"auth_enabled"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer"`
	Permission  string `mapstructure:"permission"`

	// TokenTTL is the lifetime of tokens minted by cmd/token.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fieldhelptext")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("database.url or database.host is required for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			return fmt.Errorf("sqlite.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, postgres, sqlite", c.Storage.Driver)
	}
	if c.Security.AuthEnabled {
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters when auth is enabled")
		}
		if strings.TrimSpace(c.Security.Permission) == "" {
			return fmt.Errorf("security.permission must not be empty when auth is enabled")
		}
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with /")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_path", "/admin/config/content/fieldhelptext")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Catalog
	v.SetDefault("catalog.path", "catalog.yaml")

	// Storage
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.seed_from_catalog", true)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "fieldhelptext")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "fieldhelptext")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.auto_migrate", true)

	// SQLite
	v.SetDefault("sqlite.path", "fieldhelptext.db")

	// Security
	v.SetDefault("security.auth_enabled", false)
	v.SetDefault("security.jwt_issuer", "fieldhelptext")
	v.SetDefault("security.permission", "administer field help text")
	v.SetDefault("security.token_ttl", "8h")
}
