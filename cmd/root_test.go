package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/linguo/internal/store"
)

func newFlagCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	for k, v := range flags {
		require.NoError(t, c.Flags().Set(k, v))
	}
	return c
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("LINGUO_DB_DRIVER", "postgres")
	t.Setenv("LINGUO_DB_DSN", "postgres://env")

	c := newFlagCmd(t, map[string]string{
		"env-file":  filepath.Join(t.TempDir(), "missing.env"),
		"db-driver": "sqlite",
		"db":        "/tmp/linguo-test.db",
	})
	defer func() {
		// The flag set is shared with rootCmd.
		_ = rootCmd.PersistentFlags().Set("db-driver", "")
		_ = rootCmd.PersistentFlags().Set("db", "")
	}()

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, store.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/linguo-test.db", cfg.Database.DSN)
}

func TestOpenStore_DefaultPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "linguo.db")
	t.Setenv("LINGUO_DB", dbPath)

	s, err := openStore(context.Background(), store.Options{})
	require.NoError(t, err)
	defer s.Close()
	assert.FileExists(t, dbPath)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
