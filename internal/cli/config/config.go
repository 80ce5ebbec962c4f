package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. JSONRES_SERVER_ADDRESS
const EnvPrefix = "JSONRES"

// Config represents the jsonres configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Log        LogConfig        `mapstructure:"log"`
	Resources  []ResourceConfig `mapstructure:"resources"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	BaseURL         string        `mapstructure:"base_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig represents database configuration. Driver "fixture"
// serves records from a YAML file instead of a database.
type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
	Fixture string `mapstructure:"fixture"`
}

// CacheConfig represents the rendered document cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig represents Redis connection settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PaginationConfig bounds page sizes
type PaginationConfig struct {
	DefaultSize int `mapstructure:"default_size"`
	MaxSize     int `mapstructure:"max_size"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// ResourceConfig declares one resource type
type ResourceConfig struct {
	Name          string               `mapstructure:"name"`
	Type          string               `mapstructure:"type"`
	Table         string               `mapstructure:"table"`
	PrimaryKey    []string             `mapstructure:"primary_key"`
	Attributes    []string             `mapstructure:"attributes"`
	Rename        map[string]string    `mapstructure:"rename"`
	Relationships []RelationshipConfig `mapstructure:"relationships"`
}

// RelationshipConfig declares a relation of a resource
type RelationshipConfig struct {
	Name       string `mapstructure:"name"`
	Kind       string `mapstructure:"type"`
	Target     string `mapstructure:"target"`
	ForeignKey string `mapstructure:"foreign_key"`
	OrderBy    string `mapstructure:"order_by"`
	// Route registers a nested collection route for a has_many relation
	Route bool `mapstructure:"route"`
}

// Load loads the configuration. An empty path looks for jsonres.yaml in
// the working directory and falls back to defaults when there is none.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jsonres")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.driver", "fixture")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.fixture", "")
	v.SetDefault("cache.backend", "none")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("pagination.default_size", 20)
	v.SetDefault("pagination.max_size", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	switch cfg.Database.Driver {
	case "fixture":
	case "postgres", "pgx", "sqlite3":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %s", cfg.Database.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be one of fixture, postgres, pgx, sqlite3, got: %s", cfg.Database.Driver)
	}

	switch cfg.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be one of none, memory, redis, got: %s", cfg.Cache.Backend)
	}

	if cfg.Pagination.DefaultSize < 1 {
		return fmt.Errorf("pagination.default_size must be positive, got: %d", cfg.Pagination.DefaultSize)
	}
	if cfg.Pagination.MaxSize < cfg.Pagination.DefaultSize {
		return fmt.Errorf("pagination.max_size (%d) must not be below default_size (%d)",
			cfg.Pagination.MaxSize, cfg.Pagination.DefaultSize)
	}

	if cfg.Server.BaseURL != "" && !strings.Contains(cfg.Server.BaseURL, "://") {
		return fmt.Errorf("server.base_url must be absolute, got: %s", cfg.Server.BaseURL)
	}

	seen := make(map[string]bool, len(cfg.Resources))
	for i, res := range cfg.Resources {
		if res.Name == "" {
			return fmt.Errorf("resources[%d].name is required", i)
		}
		if seen[res.Name] {
			return fmt.Errorf("resource %s is declared twice", res.Name)
		}
		seen[res.Name] = true

		for j, rel := range res.Relationships {
			if rel.Name == "" || rel.Target == "" {
				return fmt.Errorf("resources[%d].relationships[%d] needs a name and a target", i, j)
			}
		}
	}

	return nil
}
