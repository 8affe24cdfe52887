package cmd

import (
	"fmt"

	"github.com/abhisek/quantprep/internal/catalog"
	"github.com/abhisek/quantprep/internal/config"
	"github.com/abhisek/quantprep/internal/session"
	"github.com/abhisek/quantprep/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quantprep",
	Short: "GRE quantitative practice tests",
	Long: "quantprep runs timed GRE quantitative practice tests in the terminal.\n" +
		"Questions are drawn to match the real exam's mix of types and never repeat\n" +
		"until the whole catalog has been seen.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUANTPREP_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to the question catalog JSON (overrides QUANTPREP_CATALOG env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides QUANTPREP_USER env var)")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment (and .env) and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUANTPREP_DB env var, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// runtime bundles what most commands need: the resolved config, the open
// store and a session service over both.
type runtime struct {
	cfg   config.Config
	store *store.Store
	svc   *session.Service
}

func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := session.NewService(session.Options{
		Catalog:          cat,
		Progress:         st.ProgressRepo(),
		Sessions:         st.SessionRepo(),
		Events:           st.EventRepo(),
		EnforceTimeLimit: cfg.EnforceTimeLimit,
		Warnings:         cmd.ErrOrStderr(),
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return &runtime{cfg: cfg, store: st, svc: svc}, nil
}

func (r *runtime) user() string {
	return r.cfg.UserID
}

func (r *runtime) Close() error {
	return r.store.Close()
}
