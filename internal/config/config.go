// Package config loads service settings from the environment through viper.
package config

import (
	"fmt"
	"time"

	"bookstore/internal/cache"
	"bookstore/internal/services"

	"github.com/spf13/viper"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort     string
	StoreDriver string
	DatabaseDSN string
	Cache       cache.Config
	PageSize    int
	UpdateMode  services.UpdateMode
	RabbitMQURL string
	AuditQueue  string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", StoreSQLite)
	v.SetDefault("DATABASE_DSN", "bookstore.db")
	v.SetDefault("CACHE_BACKEND", cache.BackendSturdyc)
	v.SetDefault("CACHE_TTL", 30*time.Second)
	v.SetDefault("CACHE_CAPACITY", 10000)
	v.SetDefault("CACHE_SHARDS", 64)
	v.SetDefault("BOOKS_PAGE_SIZE", 50)
	v.SetDefault("BOOKS_UPDATE_MODE", string(services.UpdateMerge))
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("AUDIT_QUEUE", "audit_logs")
}

// Load reads the configuration from v, falling back to defaults and
// environment variables.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:     v.GetString("APP_PORT"),
		StoreDriver: v.GetString("STORE_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		Cache: cache.Config{
			Backend:   v.GetString("CACHE_BACKEND"),
			TTL:       v.GetDuration("CACHE_TTL"),
			Capacity:  v.GetInt("CACHE_CAPACITY"),
			NumShards: v.GetInt("CACHE_SHARDS"),
		},
		PageSize:    v.GetInt("BOOKS_PAGE_SIZE"),
		UpdateMode:  services.UpdateMode(v.GetString("BOOKS_UPDATE_MODE")),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		AuditQueue:  v.GetString("AUDIT_QUEUE"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite, StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for store driver %q", c.StoreDriver)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("BOOKS_PAGE_SIZE must be greater than 0")
	}
	switch c.UpdateMode {
	case services.UpdateMerge, services.UpdateReplace:
	default:
		return fmt.Errorf("unknown update mode %q", c.UpdateMode)
	}
	if c.RabbitMQURL != "" && c.AuditQueue == "" {
		return fmt.Errorf("AUDIT_QUEUE is required when RABBITMQ_URL is set")
	}
	return nil
}

// ServiceOptions derives the book service options.
func (c Config) ServiceOptions() services.Options {
	return services.Options{
		CacheTTL:        c.Cache.TTL,
		DefaultPageSize: c.PageSize,
		UpdateMode:      c.UpdateMode,
	}
}
