package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PoorRican/gui-agent-screenshot-tools/internal/config"
	"github.com/PoorRican/gui-agent-screenshot-tools/internal/logger"
	"github.com/PoorRican/gui-agent-screenshot-tools/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "screenshot-mcp",
	Short: "MCP server for GUI agent screenshot coordinates",
	Long: `screenshot-mcp loads full resolution screenshots, resizes them to a model's
input size (stretched or letterboxed) and maps coordinates and boxes the model
produces back to real screen pixels.

It communicates via MCP over stdin/stdout. Configure it in your MCP client.

Settings come from an optional YAML file and SCREENSHOT_MCP_* environment
variables, e.g. SCREENSHOT_MCP_LOG_LEVEL=debug.`,
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads the config named by --config and applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Debug("build info",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	srv := server.New(cfg, log, Version)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("server error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
