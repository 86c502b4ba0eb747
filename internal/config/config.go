// Package config assembles runtime configuration from an optional .env file
// and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/linguo/internal/auth"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/maintenance"
	"github.com/abhisek/linguo/internal/observability"
	"github.com/abhisek/linguo/internal/speech"
	"github.com/abhisek/linguo/internal/store"
)

// Config is the complete server configuration.
type Config struct {
	LogMode     string
	HTTP        HTTP
	Database    store.Options
	Auth        Auth
	LLM         llm.Config
	Speech      speech.Config
	Redis       Redis
	Maintenance maintenance.Config
	Telemetry   observability.OtelConfig
}

type HTTP struct {
	Addr           string
	AllowedOrigins []string
}

type Auth struct {
	JWTSecret string
	Audience  string
}

// Redis enables the cross-process lesson lock when Addr is set.
type Redis struct {
	Addr    string
	LockTTL time.Duration
}

// Load reads envFile (default ".env"; a missing file is ignored) and then
// the environment. Variables already set in the environment win over the
// file.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the environment with defaults.
func FromEnv() Config {
	return Config{
		LogMode: str("LINGUO_LOG_MODE", "dev"),
		HTTP: HTTP{
			Addr:           str("LINGUO_HTTP_ADDR", ":8080"),
			AllowedOrigins: list("LINGUO_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		},
		Database: store.Options{
			Driver: str("LINGUO_DB_DRIVER", store.DriverSQLite),
			DSN:    str("LINGUO_DB_DSN", ""),
		},
		Auth: Auth{
			JWTSecret: first("LINGUO_JWT_SECRET", "SUPABASE_JWT_SECRET"),
			Audience:  str("LINGUO_JWT_AUDIENCE", auth.DefaultAudience),
		},
		LLM:    llm.ConfigFromEnv(),
		Speech: speech.ConfigFromEnv(),
		Redis: Redis{
			Addr:    str("LINGUO_REDIS_ADDR", ""),
			LockTTL: duration("LINGUO_LOCK_TTL", 60*time.Second),
		},
		Maintenance: maintenance.Config{
			Retention: duration("LINGUO_LLM_EVENT_RETENTION", maintenance.DefaultRetention),
			Schedule:  str("LINGUO_MAINTENANCE_SCHEDULE", maintenance.DefaultSchedule),
		},
		Telemetry: observability.OtelConfig{
			Enabled:     boolean("OTEL_ENABLED", false),
			ServiceName: str("OTEL_SERVICE_NAME", "linguo"),
			Environment: str("LINGUO_ENV", "development"),
			Endpoint:    str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
			Insecure:    boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: observability.ParseRatio(os.Getenv("OTEL_SAMPLER_RATIO")),
		},
	}
}

// Validate checks the settings the server cannot start without. A missing
// LLM credential is not an error: generation is disabled and lessons come
// from the fallback bank.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("LINGUO_JWT_SECRET is required"))
	}
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.Driver == store.DriverPostgres && c.Database.DSN == "" {
		errs = append(errs, errors.New("LINGUO_DB_DSN is required for postgres"))
	}
	if err := c.LLM.Validate(); err != nil && !errors.Is(err, llm.ErrNoCredential) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func first(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

func list(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func duration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func boolean(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
