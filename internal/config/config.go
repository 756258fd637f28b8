// Package config provides configuration loading and validation for the
// matching daemon. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the matching daemon.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis (presence and coverage cache)
	RedisURL string `koanf:"redis_url"`

	// Scoring
	CalibrationFile string `koanf:"calibration_file"`

	// Geospatial search
	GeoRadiusKm    float64       `koanf:"geo_radius_km"`
	PresenceTTL    time.Duration `koanf:"presence_ttl"`
	SweepInterval  time.Duration `koanf:"sweep_interval"`
	LocationMaxAge time.Duration `koanf:"location_max_age"`

	// Tracing
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingEndpoint string `koanf:"tracing_endpoint"`
	TracingProtocol string `koanf:"tracing_protocol"` // "grpc" or "http"
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL     = errors.New("DATABASE_URL is required")
	ErrInvalidPort            = errors.New("PORT must be a valid integer")
	ErrInvalidRadius          = errors.New("GEO_RADIUS_KM must be positive")
	ErrInvalidTracingProtocol = errors.New("TRACING_PROTOCOL must be \"grpc\" or \"http\"")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultGeoRadiusKm     = 10.0
	DefaultPresenceTTL     = 5 * time.Minute
	DefaultSweepInterval   = time.Minute
	DefaultLocationMaxAge  = 10 * time.Minute
	DefaultTracingProtocol = "grpc"
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Parse port from env, collecting error if invalid
	// Try MATCHCORE_PORT first, then PORT for backward compatibility
	port, portErr := getEnvIntOrDefaultMulti([]string{"MATCHCORE_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	radius, radiusErr := getEnvFloatOrDefault("GEO_RADIUS_KM", k.Float64("geo_radius_km"), DefaultGeoRadiusKm)
	if radiusErr != nil {
		loadErrs = append(loadErrs, radiusErr)
	}

	presenceTTL, ttlErr := getEnvDurationOrDefault("PRESENCE_TTL", k.Duration("presence_ttl"), DefaultPresenceTTL)
	if ttlErr != nil {
		loadErrs = append(loadErrs, ttlErr)
	}

	sweepInterval, sweepErr := getEnvDurationOrDefault("SWEEP_INTERVAL", k.Duration("sweep_interval"), DefaultSweepInterval)
	if sweepErr != nil {
		loadErrs = append(loadErrs, sweepErr)
	}

	maxAge, maxAgeErr := getEnvDurationOrDefault("LOCATION_MAX_AGE", k.Duration("location_max_age"), DefaultLocationMaxAge)
	if maxAgeErr != nil {
		loadErrs = append(loadErrs, maxAgeErr)
	}

	// Parse tracing flag from env with file fallback
	tracingEnabled := false
	if k.Exists("tracing_enabled") {
		tracingEnabled = k.Bool("tracing_enabled")
	}
	if val := os.Getenv("TRACING_ENABLED"); val != "" {
		// Env var takes precedence over file config
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			tracingEnabled = true
		case "false", "0", "no", "off":
			tracingEnabled = false
		}
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:            port,
		Env:             getEnvOrDefaultMulti([]string{"MATCHCORE_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:     getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:        getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		CalibrationFile: getEnvOrKoanf("CALIBRATION_FILE", k, "calibration_file"),
		GeoRadiusKm:     radius,
		PresenceTTL:     presenceTTL,
		SweepInterval:   sweepInterval,
		LocationMaxAge:  maxAge,
		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrKoanf("TRACING_ENDPOINT", k, "tracing_endpoint"),
		TracingProtocol: getEnvOrDefault("TRACING_PROTOCOL", k.String("tracing_protocol"), DefaultTracingProtocol),
	}

	// Validate and collect errors
	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvDurationOrDefault returns the environment variable as a duration if set,
// otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed.
func getEnvDurationOrDefault(envKey string, koanfVal time.Duration, defaultVal time.Duration) (time.Duration, error) {
	if val := os.Getenv(envKey); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid duration (e.g. \"5m\"): %w", envKey, err)
		}
		return d, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.GeoRadiusKm <= 0 {
		errs = append(errs, ErrInvalidRadius)
	}
	if c.TracingEnabled && c.TracingProtocol != "grpc" && c.TracingProtocol != "http" {
		errs = append(errs, ErrInvalidTracingProtocol)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// Credentials are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":             fmt.Sprintf("%d", c.Port),
		"env":              c.Env,
		"database_url":     maskURL(c.DatabaseURL),
		"redis_url":        maskURL(c.RedisURL),
		"calibration_file": c.CalibrationFile,
		"geo_radius_km":    fmt.Sprintf("%g", c.GeoRadiusKm),
		"presence_ttl":     c.PresenceTTL.String(),
		"sweep_interval":   c.SweepInterval.String(),
		"location_max_age": c.LocationMaxAge.String(),
		"tracing_enabled":  fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_endpoint": c.TracingEndpoint,
		"tracing_protocol": c.TracingProtocol,
	}
}

// maskURL masks the password in a connection URL.
// Supports postgres://, postgresql:// and redis:// schemes.
func maskURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	// Look for password pattern: user:password@host
	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return "****"
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	// Reconstruct URL with masked password
	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
