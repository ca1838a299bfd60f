// Package config loads the server configuration from environment variables,
// applies defaults and validates the result. Every problem found is reported
// at once so a misconfigured deployment fails with the full list.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// StoreConfig selects and configures the entity store backend.
type StoreConfig struct {
	Driver         string        // STORE_DRIVER: mongo|sqlite
	MongoURL       string        // MONGO_URL
	MongoDB        string        // MONGO_DB
	ConnectTimeout time.Duration // MONGO_CONNECT_TIMEOUT
	DBPath         string        // DB_PATH (sqlite)
}

// CacheConfig defines the optional Redis profile cache.
type CacheConfig struct {
	RedisURL   string        // REDIS_URL; empty disables the cache
	ProfileTTL time.Duration // PROFILE_CACHE_TTL
}

// RateConfig sizes the per-client token buckets. Writes (POST, DELETE) draw
// from their own bucket since each one allocates sequence ids.
type RateConfig struct {
	RPS        float64 // RATE_RPS
	Burst      int     // RATE_BURST
	WriteRPS   float64 // RATE_WRITE_RPS
	WriteBurst int     // RATE_WRITE_BURST
}

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string // CORS_ALLOWED_ORIGINS, comma separated
}

// SecurityConfig defines HSTS settings.
type SecurityConfig struct {
	EnableHSTS bool          // ENABLE_HSTS
	HSTSMaxAge time.Duration // HSTS_MAX_AGE
}

// OTELConfig defines OpenTelemetry tracing settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test
	ShutdownTimeout   time.Duration

	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	Store StoreConfig
	Cache CacheConfig

	// ProfileDefaultImage is served for profiles stored without an image.
	ProfileDefaultImage string

	Rate     RateConfig
	CORS     CORSConfig
	Security SecurityConfig

	// IdempotencyTTL is how long a recorded response stays replayable.
	IdempotencyTTL time.Duration

	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, applies defaults and validates the result.
// The returned error joins every validation failure.
func Load() (Config, error) {
	cfg := Config{
		Port:              strings.TrimSpace(getenv("PORT", "8080")),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           normalizeGinMode(getenv("GIN_MODE", "release")),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:       normalizeLogLevel(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/")),

		Store: StoreConfig{
			Driver:         strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER", DriverMongo))),
			MongoURL:       getenv("MONGO_URL", "mongodb://localhost:27017"),
			MongoDB:        getenv("MONGO_DB", "profiles"),
			ConnectTimeout: getdur("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			DBPath:         getenv("DB_PATH", "app.db"),
		},
		Cache: CacheConfig{
			RedisURL:   strings.TrimSpace(getenv("REDIS_URL", "")),
			ProfileTTL: getdur("PROFILE_CACHE_TTL", 10*time.Minute),
		},

		ProfileDefaultImage: getenv("PROFILE_DEFAULT_IMAGE", "/static/elon-musk.jpg"),

		CORS: CORSConfig{AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-profile-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}
	cfg.Rate.RPS = getfloat("RATE_RPS", 5.0)
	cfg.Rate.Burst = getint("RATE_BURST", 10)
	// The write bucket defaults to the read bucket.
	cfg.Rate.WriteRPS = getfloat("RATE_WRITE_RPS", cfg.Rate.RPS)
	cfg.Rate.WriteBurst = getint("RATE_WRITE_BURST", cfg.Rate.Burst)

	return cfg, cfg.Validate()
}

// Validate reports every invalid setting, joined into one error.
func (cfg Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic"))
	}
	check(cfg.Port != "", "PORT must not be empty")
	check(cfg.ReadTimeout > 0 && cfg.ReadHeaderTimeout > 0 && cfg.WriteTimeout > 0 && cfg.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(cfg.ShutdownTimeout > 0, "SHUTDOWN_TIMEOUT must be > 0")
	check(cfg.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")

	switch cfg.Store.Driver {
	case DriverMongo:
		check(strings.TrimSpace(cfg.Store.MongoURL) != "", "MONGO_URL must not be empty")
		check(strings.TrimSpace(cfg.Store.MongoDB) != "", "MONGO_DB must not be empty")
		check(cfg.Store.ConnectTimeout > 0, "MONGO_CONNECT_TIMEOUT must be > 0")
	case DriverSQLite:
		check(strings.TrimSpace(cfg.Store.DBPath) != "", "DB_PATH must not be empty")
	default:
		errs = append(errs, errors.New("STORE_DRIVER must be one of: mongo, sqlite"))
	}
	check(cfg.Cache.RedisURL == "" || cfg.Cache.ProfileTTL > 0, "PROFILE_CACHE_TTL must be > 0")

	check(cfg.Rate.RPS >= 0, "RATE_RPS must be >= 0")
	check(cfg.Rate.Burst >= 1, "RATE_BURST must be >= 1")
	check(cfg.Rate.WriteRPS >= 0, "RATE_WRITE_RPS must be >= 0")
	check(cfg.Rate.WriteBurst >= 1, "RATE_WRITE_BURST must be >= 1")

	check(cfg.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(cfg.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(cfg.OTEL.SampleRatio >= 0 && cfg.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	check(!cfg.OTEL.Enabled || strings.TrimSpace(cfg.OTEL.Endpoint) != "", "OTEL_EXPORTER_OTLP_ENDPOINT must be set when OTEL_ENABLED")

	return errors.Join(errs...)
}

func normalizeLogLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

// normalizeGinMode maps unknown modes to release.
func normalizeGinMode(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "debug", "release", "test":
		return s
	}
	return "release"
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing ones (except root).
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
