// AngelaMos | 2026
// main.go

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/angelamos/wholesale-api/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wholesale-api",
	Short: "Wholesale marketplace API server",
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath,
		"config",
		"config.yaml",
		"path to config file",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(keygenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
