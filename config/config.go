package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SHOPSMART_"

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Log        LogConfig        `koanf:"log"`
	ClickHouse ClickHouseConfig `koanf:"clickhouse"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Display    DisplayConfig    `koanf:"display"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	Mode            string        `koanf:"mode"`
	AllowedOrigin   string        `koanf:"allowed_origin"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type GeminiConfig struct {
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type CatalogConfig struct {
	Path string `koanf:"path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ClickHouseConfig enables the event mirror when Host is set.
type ClickHouseConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

func (c ClickHouseConfig) Enabled() bool {
	return c.Host != ""
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

// DisplayConfig controls how event times are rendered in the analysis prompt.
type DisplayConfig struct {
	Timezone string `koanf:"timezone"`
}

// Location resolves the configured timezone, falling back to the process local zone.
func (d DisplayConfig) Location() *time.Location {
	if d.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

var defaults = map[string]any{
	"server.port":             8080,
	"server.mode":             "debug",
	"server.allowed_origin":   "http://localhost:3000",
	"server.shutdown_timeout": "5s",
	"gemini.model":            "gemini-2.5-flash",
	"gemini.base_url":         "https://generativelanguage.googleapis.com",
	"gemini.timeout":          "0s",
	"log.level":               "info",
	"log.format":              "text",
	"clickhouse.port":         9000,
	"clickhouse.database":     "default",
	"telemetry.service_name":  "shopsmart-api",
}

// Load builds the configuration from defaults, an optional YAML file named by
// SHOPSMART_CONFIG, and SHOPSMART_ prefixed environment variables, in that order.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyLegacyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SHOPSMART_GEMINI__API_KEY to gemini.api_key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// applyLegacyEnv honours the unprefixed variables the storefront demo has always used.
func applyLegacyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"SERVER__PORT") == "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			cfg.Server.Port = p
		} else {
			log.Printf("Ignoring invalid PORT %q: %v", port, err)
		}
	}
	if os.Getenv("GIN_MODE") == "release" {
		cfg.Server.Mode = "release"
	}
	if origin := os.Getenv("FE_ORIGIN"); origin != "" {
		cfg.Server.AllowedOrigin = origin
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY"))
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini model must not be empty")
	}
	if c.ClickHouse.Enabled() && c.ClickHouse.Port <= 0 {
		return fmt.Errorf("invalid clickhouse port: %d", c.ClickHouse.Port)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
