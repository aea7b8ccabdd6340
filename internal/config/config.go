package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the geofeed API and loader configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Census   CensusConfig   `yaml:"census"`
	Loader   LoaderConfig   `yaml:"loader"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	URI              string `yaml:"uri"`
	Name             string `yaml:"name"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
	TimeoutSec       int    `yaml:"timeout_sec"` // per-operation timeout
}

// CensusConfig holds the age bounds used when a range is open or unparsable.
type CensusConfig struct {
	MinAge int `yaml:"min_age"`
	MaxAge int `yaml:"max_age"`
}

// LoaderConfig holds batch loader settings.
type LoaderConfig struct {
	PlacesDir   string     `yaml:"places_dir"`
	TweetsDir   string     `yaml:"tweets_dir"`
	CensusDir   string     `yaml:"census_dir"`
	Header      bool       `yaml:"header"` // input CSV files start with a header row
	BatchSize   int        `yaml:"batch_size"`
	Workers     int        `yaml:"workers"`
	MetricsPort int        `yaml:"metrics_port"` // 0 = disabled
	Lock        LockConfig `yaml:"lock"`
}

// LockConfig holds the optional Redis lock guarding loader runs.
type LockConfig struct {
	Addrs    []string `yaml:"addrs"` // empty = no lock
	Password string   `yaml:"password"`
	Key      string   `yaml:"key"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Enabled reports whether a lock backend is configured.
func (l LockConfig) Enabled() bool { return len(l.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Name == "" {
		c.Database.Name = "geofeed"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.TimeoutSec <= 0 {
		c.Database.TimeoutSec = 30
	}
	// min_age 0 is a valid lower bound, only max_age needs a default.
	if c.Census.MaxAge <= 0 {
		c.Census.MaxAge = 130
	}
	if c.Loader.BatchSize <= 0 {
		c.Loader.BatchSize = 1000
	}
	if c.Loader.Workers <= 0 {
		c.Loader.Workers = 4
	}
	if c.Loader.Lock.Key == "" {
		c.Loader.Lock.Key = "geofeed:loader:lock"
	}
	if c.Loader.Lock.TTLSec <= 0 {
		c.Loader.Lock.TTLSec = 3600
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.URI == "" {
		return fmt.Errorf("database.uri is required")
	}
	if c.Census.MinAge < 0 {
		return fmt.Errorf("census.min_age must be >= 0, got %d", c.Census.MinAge)
	}
	if c.Census.MinAge > c.Census.MaxAge {
		return fmt.Errorf("census.min_age (%d) must not exceed census.max_age (%d)",
			c.Census.MinAge, c.Census.MaxAge)
	}
	if c.Loader.MetricsPort < 0 || c.Loader.MetricsPort > 65535 {
		return fmt.Errorf("loader.metrics_port must be between 0 and 65535, got %d", c.Loader.MetricsPort)
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
