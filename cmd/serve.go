package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/insight"
	"github.com/AKakshat1729/AGI-119/internal/llm"
	"github.com/AKakshat1729/AGI-119/internal/logger"
	"github.com/AKakshat1729/AGI-119/internal/server"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		log, err := logger.New(cfg.Logging.Mode)
		if err != nil {
			return err
		}
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath, store.WithLogger(log.With("component", "store")))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
		log.Info("database opened", "path", dbPath)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := clinical.New(st.SessionRepo(), st.AlertRepo(),
			clinical.WithSettings(cfg.Clinical()),
			clinical.WithLogger(log.With("component", "clinical")),
		)
		// Drain queued sessions after the server stops accepting them.
		defer engine.Close()

		srv := server.New(server.RouterConfig{
			Engine:   engine,
			Insights: insight.New(newInsightProvider(ctx, st, log), log.With("component", "insight")),
			Log:      log.With("component", "http"),
			Server:   cfg.Server,
		})
		return srv.Run(ctx)
	},
}

// newInsightProvider returns nil when no LLM is configured; insights are
// optional and never block startup.
func newInsightProvider(ctx context.Context, st *store.Store, log *logger.Logger) llm.Provider {
	llmCfg, ok := llm.ConfigFromEnv()
	if !ok {
		log.Info("no llm provider configured, insights disabled")
		return nil
	}
	p, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log.With("component", "llm"))
	if err != nil {
		log.Warn("llm provider unavailable, insights disabled", "err", err)
		return nil
	}
	return p
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
