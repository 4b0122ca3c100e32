package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport names accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Database drivers accepted by database.driver.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds the food-travel MCP server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Places   PlacesConfig   `yaml:"places"`
	Search   SearchConfig   `yaml:"search"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Backend  BackendConfig  `yaml:"backend"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig selects how tool calls reach the server.
type ServerConfig struct {
	Name      string `yaml:"name"`
	Transport string `yaml:"transport"` // stdio, http (default: stdio)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings for the HTTP transport.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// PlacesConfig holds places provider settings.
type PlacesConfig struct {
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	SurfaceErrors bool   `yaml:"surface_errors"` // report provider failures instead of returning no results
}

// SearchConfig holds per-call defaults; callers may override both.
type SearchConfig struct {
	DefaultRadiusKm   float64 `yaml:"default_radius_km"`
	DefaultMaxResults int     `yaml:"default_max_results"`
}

// DatabaseConfig holds restaurant cache storage settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // sqlite, redis (default: sqlite)
	URL              string   `yaml:"url"`    // sqlite file path or DSN
	Addrs            []string `yaml:"addrs"`  // redis
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CacheConfig is reserved for a future caching layer.
type CacheConfig struct {
	Dir    string `yaml:"dir"`
	TTLSec int    `yaml:"ttl_sec"`
}

// BackendConfig is reserved for integration with the existing backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Load reads configuration by environment name (local, dev, prod).
// CONFIG_PATH, when set, points at the file directly.
func Load(env string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = findConfigPath(env)
	}
	return LoadFile(configPath)
}

// LoadFile reads, expands, defaults and validates a single YAML file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "food-travel-mcp"
	}
	if c.Server.Transport == "" {
		c.Server.Transport = TransportStdio
	}
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Places.BaseURL == "" {
		c.Places.BaseURL = "https://maps.googleapis.com/maps/api/place"
	}
	if c.Places.TimeoutSec <= 0 {
		c.Places.TimeoutSec = 10
	}
	if c.Search.DefaultRadiusKm <= 0 {
		c.Search.DefaultRadiusKm = 10
	}
	if c.Search.DefaultMaxResults <= 0 {
		c.Search.DefaultMaxResults = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.URL == "" {
		c.Database.URL = "./food_travel.db"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "./cache"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:5000"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Places.APIKey) == "" {
		return fmt.Errorf("places.api_key is required")
	}
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
		// ok
	default:
		return fmt.Errorf("server.transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, c.Server.Transport)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite:
		// ok
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q",
			DriverSQLite, DriverRedis, c.Database.Driver)
	}
	return nil
}

// loadDotEnv populates the process environment from a .env file (DOTENV_PATH, default ".env").
// Variables already set win. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
