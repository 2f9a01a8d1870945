// Package main implements starletctl, the operator CLI for schema migrations,
// index rebuilds, scraped-data ingest and ad-hoc searches.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starlet/starlet/internal/app"
	"github.com/starlet/starlet/internal/config"
	logpkg "github.com/starlet/starlet/internal/logger"
	"github.com/starlet/starlet/internal/version"
)

var (
	// env selects config/<env>.yaml; defaults to $ENV or "local".
	env string
	// logLevel overrides the configured log level.
	logLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "starletctl",
	Short: "Operator CLI for the starlet catalog",
	Long: `starletctl runs maintenance tasks against the starlet record store
and search index using the same configuration as the API server.`,
	Version:      version.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "configuration environment (local, dev, prod)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")
}

// session bundles what a command needs after loading config.
type session struct {
	cfg    config.Config
	logger *zap.Logger
}

func loadSession() (*session, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger}, nil
}

// withApp loads config, connects and runs fn with a context cancelled on SIGINT/SIGTERM.
func withApp(fn func(ctx context.Context, a *app.App, rt *session) error) error {
	rt, err := loadSession()
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, rt.cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	return fn(ctx, a, rt)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
