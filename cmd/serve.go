package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/dumpsong/internal/llm"
	"github.com/bimmerbailey/dumpsong/internal/lyrics"
	"github.com/bimmerbailey/dumpsong/internal/server"
	"github.com/bimmerbailey/dumpsong/internal/video"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generate-video HTTP API",
	Long: `Start the HTTP API used by the web app.

Routes:
  POST /generate-video   {"employeeName": "...", "employeeInfo": "..."}
  GET  /health

The provider is initialized once at startup; missing credentials fail here
rather than on the first request. Changing log_level in the config file
takes effect without a restart.

Examples:
  dumpsong serve
  dumpsong serve --addr 127.0.0.1:8080 --provider ollama --model llama3.2`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :5000)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, level, redactor := newLogger(cfg, os.Stderr, slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := llm.NewProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if err := provider.Heartbeat(ctx); err != nil {
		// Requests will fail until the provider comes up; keep serving health checks.
		logger.Warn("llm provider heartbeat failed", "provider", cfg.LLM.Provider, "error", err)
	}

	generator := lyrics.New(provider, lyrics.FromConfig(cfg.LLM), logger)
	renderer := video.Placeholder{URL: cfg.Server.VideoPlaceholderURL}

	srv, err := server.New(generator, renderer, logger, server.Options{
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		RequestTimeout:    cfg.Server.RequestTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Redactor:          redactor,
	})
	if err != nil {
		return err
	}

	watchLogLevel(logger, level)

	logger.Info("starting dumpsong",
		"version", version,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"max_retries", cfg.LLM.MaxRetries,
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// watchLogLevel re-reads log_level whenever the config file changes.
func watchLogLevel(logger *slog.Logger, level *slog.LevelVar) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		applyLogLevel(logger, level, e)
	})
	viper.WatchConfig()
}

func applyLogLevel(logger *slog.Logger, level *slog.LevelVar, e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	next := resolveLevel(viper.GetString("log_level"), viper.GetBool("verbose"), slog.LevelInfo)
	if next == level.Level() {
		return
	}
	level.Set(next)
	logger.Info("log level changed", "file", e.Name, "level", next.String())
}
