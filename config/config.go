package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "json" or "console"
}

// StoreConfig selects the override catalog backend
type StoreConfig struct {
	Type       string `mapstructure:"type"` // "memory", "redis" or "sqlite"
	RedisURL   string `mapstructure:"redis_url"`
	SQLitePath string `mapstructure:"sqlite_path"`
	SeedFile   string `mapstructure:"seed_file"`
}

// CatalogConfig holds the formatting options of the price grid
type CatalogConfig struct {
	ShopName      string              `mapstructure:"shop_name"`
	ShopURL       string              `mapstructure:"shop_url"`
	Brands        []string            `mapstructure:"brands"`
	FallbackBrand string              `mapstructure:"fallback_brand"`
	PricingNotes  []string            `mapstructure:"pricing_notes"`
	HeaderAliases HeaderAliasesConfig `mapstructure:"header_aliases"`
}

// HeaderAliasesConfig lists accepted column headers of the input spreadsheet
type HeaderAliasesConfig struct {
	Name  []string `mapstructure:"name"`
	Price []string `mapstructure:"price"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // format uploads per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default search paths when
// path is empty
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pricegrid/")
	}

	v.SetEnvPrefix("PRICEGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.max_upload_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.sqlite_path", "pricegrid.db")
	v.SetDefault("store.seed_file", "")

	// Catalog defaults
	v.SetDefault("catalog.shop_name", "Boutique")
	v.SetDefault("catalog.shop_url", "")
	v.SetDefault("catalog.brands", []string{
		"Apple", "Samsung", "Xiaomi", "Redmi", "Poco", "Huawei", "Honor",
		"Oppo", "Realme", "OnePlus", "Google", "Motorola", "Nokia", "Sony",
		"Vivo", "Hotwav", "Crosscall", "Fairphone", "Nothing", "TCL",
		"Alcatel", "Doro",
	})
	v.SetDefault("catalog.fallback_brand", "Autre")
	v.SetDefault("catalog.pricing_notes", []string{})
	v.SetDefault("catalog.header_aliases.name", []string{})
	v.SetDefault("catalog.header_aliases.price", []string{})

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Store.Type {
	case "memory":
	case "redis":
		if config.Store.RedisURL == "" {
			return fmt.Errorf("redis URL is required when store type is 'redis' (set PRICEGRID_STORE_REDIS_URL)")
		}
	case "sqlite":
		if config.Store.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required when store type is 'sqlite'")
		}
	default:
		return fmt.Errorf("store type must be 'memory', 'redis' or 'sqlite', got: %s", config.Store.Type)
	}

	if len(config.Catalog.Brands) == 0 {
		return fmt.Errorf("catalog brand list must not be empty")
	}

	if strings.TrimSpace(config.Catalog.FallbackBrand) == "" {
		return fmt.Errorf("catalog fallback brand must not be empty")
	}

	// "all" is the preview filter value for every brand
	for _, brand := range append([]string{config.Catalog.FallbackBrand}, config.Catalog.Brands...) {
		if strings.EqualFold(strings.TrimSpace(brand), "all") {
			return fmt.Errorf("catalog brand %q is reserved", brand)
		}
	}

	if config.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server max upload size must be positive, got: %d", config.Server.MaxUploadMB)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per IP must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
