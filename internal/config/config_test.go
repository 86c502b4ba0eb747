package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LINGUO_HTTP_ADDR=:9999\n"), 0o600))

	t.Setenv("LINGUO_HTTP_ADDR", "")
	t.Setenv("LINGUO_JWT_SECRET", "s3cret")
	t.Setenv("LINGUO_LLM_EVENT_RETENTION", "72h")
	t.Setenv("LINGUO_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("OTEL_ENABLED", "true")
	// godotenv does not override variables that are already set, even to
	// the empty string, so unset the one the file provides.
	os.Unsetenv("LINGUO_HTTP_ADDR")
	t.Cleanup(func() { os.Unsetenv("LINGUO_HTTP_ADDR") })

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "authenticated", cfg.Auth.Audience)
	assert.Equal(t, 72*time.Hour, cfg.Maintenance.Retention)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("LINGUO_LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("LINGUO_GROQ_API_KEY", "")
	t.Setenv("LINGUO_JWT_SECRET", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	cfg := FromEnv()
	assert.Error(t, cfg.Validate(), "missing JWT secret")

	cfg.Auth.JWTSecret = "x"
	assert.NoError(t, cfg.Validate(), "missing LLM key only disables generation")

	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Database.DSN = "postgres://localhost/linguo"
	assert.NoError(t, cfg.Validate())

	cfg.LLM.Provider = "nope"
	assert.Error(t, cfg.Validate())
}
