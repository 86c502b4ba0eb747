package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/config"
	"github.com/abhisek/linguo/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "linguo",
	Short:         "Gamified English lessons API",
	Long:          "Linguo serves personalized English lessons generated by an LLM, cached per learner and backed by a built-in fallback bank.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a dotenv file (missing file is ignored)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path or DSN (overrides LINGUO_DB_DSN)")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver: sqlite or postgres (overrides LINGUO_DB_DRIVER)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the env file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetString("db-driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database.DSN = v
	}
	return cfg, nil
}

// openStore opens the configured database. An empty SQLite DSN resolves to
// the default data path.
func openStore(ctx context.Context, opts store.Options) (*store.Store, error) {
	if opts.Driver == "" {
		opts.Driver = store.DriverSQLite
	}
	if opts.Driver == store.DriverSQLite && opts.DSN == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		opts.DSN = p
	}
	st, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
