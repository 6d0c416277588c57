// Package config provides configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"bike-config/core/pricing"
	"bike-config/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. BIKECONF_CATALOG_PATH
const EnvPrefix = "BIKECONF"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Catalog contains catalog store configuration
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// Bikes contains specification store configuration
	Bikes BikesConfig `json:"bikes" mapstructure:"bikes"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing" mapstructure:"pricing"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// AllowedOrigin is sent as Access-Control-Allow-Origin
	AllowedOrigin string `json:"allowed_origin" mapstructure:"allowed_origin"`
}

// CatalogConfig selects the catalog backend
type CatalogConfig struct {
	// Backend is "json" or "sqlite"
	Backend string `json:"backend" mapstructure:"backend"`

	// Path is the links file or database path
	Path string `json:"path" mapstructure:"path"`
}

// BikesConfig locates the specification store files
type BikesConfig struct {
	// Path is the bikes file
	Path string `json:"path" mapstructure:"path"`

	// BackupPath is the backup bikes file
	BackupPath string `json:"backup_path" mapstructure:"backup_path"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// Currency is the display currency; only GBP is supported
	Currency pricing.Currency `json:"currency" mapstructure:"currency"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".bike-config")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:          ":8080",
			AllowedOrigin: "http://localhost:3000",
		},
		Catalog: CatalogConfig{
			Backend: "json",
			Path:    filepath.Join(dataDir, "links.json"),
		},
		Bikes: BikesConfig{
			Path:       filepath.Join(dataDir, "bikes.json"),
			BackupPath: filepath.Join(dataDir, "bikes-backup.json"),
		},
		Pricing: PricingConfig{
			Currency: pricing.CurrencyGBP,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies BIKECONF_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bike-config")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bike-config"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that decodes but cannot be used
func (c *Config) Validate() error {
	var err error
	if _, cerr := pricing.ParseCurrency(string(c.Pricing.Currency)); cerr != nil {
		err = multierr.Append(err, cerr)
	}
	switch strings.ToLower(c.Catalog.Backend) {
	case "", "json", "sqlite":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown catalog backend %q", c.Catalog.Backend))
	}
	if c.Catalog.Path == "" {
		err = multierr.Append(err, errors.New("catalog.path is required"))
	}
	if c.Bikes.Path == "" {
		err = multierr.Append(err, errors.New("bikes.path is required"))
	}
	return err
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origin", d.Server.AllowedOrigin)
	v.SetDefault("catalog.backend", d.Catalog.Backend)
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("bikes.path", d.Bikes.Path)
	v.SetDefault("bikes.backup_path", d.Bikes.BackupPath)
	v.SetDefault("pricing.currency", string(d.Pricing.Currency))
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
