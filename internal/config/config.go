package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Kasir"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"kasir"`
	}

	Till struct {
		// ScanCooldown gates duplicate decodes from one physical scan.
		ScanCooldown time.Duration `envconfig:"SCAN_COOLDOWN" default:"1500ms"`
		// WarningTTL is how long displays keep a transient warning visible.
		WarningTTL time.Duration `envconfig:"WARNING_TTL" default:"2s"`
		// CatalogPath points at a barcode,name,price CSV; empty means the
		// built-in product list.
		CatalogPath string `envconfig:"CATALOG_PATH"`
		// HistoryPath switches receipt persistence to a JSON log file
		// instead of Postgres, for tills without a local database.
		HistoryPath string `envconfig:"HISTORY_PATH"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
