package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"daily-menu/bot"
	"daily-menu/config"
	"daily-menu/db"
	"daily-menu/httpapi"
	"daily-menu/logger"
	"daily-menu/metrics"
	"daily-menu/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     *config.Config
	log     *zap.SugaredLogger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "daily-menu",
	Short: "Telegram editor for the restaurant's daily menus",
	Long: `daily-menu runs the Telegram admin bot that edits the daily lunch and
dinner menus, and a small HTTP API serving the published menus.

Run without arguments to serve.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the menu editor bot and the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded SQL migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.DB); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	if cfg.Editor.AutoMigrate {
		if err := applyMigrations(ctx, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewEditor(reg)
	store := services.MenuStore{}

	editor, err := bot.New(cfg, store, log.Named("bot"), m)
	if err != nil {
		return fmt.Errorf("bot: %w", err)
	}

	if cfg.HTTP.Addr == "" {
		return serve(ctx, editor, nil, "")
	}
	api := httpapi.New(log.Named("http"), store, db.Ping, metrics.HandlerForRegistry(reg))
	return serve(ctx, editor, api, cfg.HTTP.Addr)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := db.Init(ctx, cfg.DB); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()

	return applyMigrations(ctx, log)
}
