package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/config"
	"github.com/AKakshat1729/AGI-119/internal/logger"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "agi119",
	Short: "Clinical session analytics engine",
	Long: "agi119 analyses therapy-chat transcripts for emotion, recurring themes and risk,\n" +
		"stores the results and serves per-user dashboards and reports.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AGI119_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $AGI119_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(safetyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config, falling back to AGI119_CONFIG.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("AGI119_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path or AGI119_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	flag, _ := cmd.Flags().GetString("db")
	return cfg.DBPath(flag)
}

// commandLogger discards output unless --verbose is set.
func commandLogger(cmd *cobra.Command, cfg *config.Config) (*logger.Logger, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		return logger.NewNop(), nil
	}
	return logger.New(cfg.Logging.Mode)
}

// env is what one-shot commands share: config, log and an open store.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := commandLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, log: log, store: st}, nil
}

func (e *env) engine() *clinical.Engine {
	return clinical.New(e.store.SessionRepo(), e.store.AlertRepo(),
		clinical.WithSettings(e.cfg.Clinical()),
		clinical.WithLogger(e.log),
	)
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}
