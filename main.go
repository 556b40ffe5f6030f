package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LianHaeming/llmguide/config"
	"github.com/LianHaeming/llmguide/content"
)

// BuildVersion is set at compile time via -ldflags.
// If empty (local dev), falls back to a timestamp so assets are never cached.
var BuildVersion string

var (
	// Global flags
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "llmguide",
	Short: "LLM Guide for Startups",
	Long: `An interactive guide to large language models for startup founders.

Run without arguments to start the web server. The progress and feedback
subcommands inspect and maintain the data files the server writes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger, err = config.NewLogger(cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressResetCmd)
	feedbackCmd.AddCommand(feedbackExportCmd)
	feedbackCmd.AddCommand(feedbackClearCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCatalog reads CONTENT_PATH when set, otherwise the built-in catalog.
func loadCatalog() (*content.Catalog, error) {
	if cfg.ContentPath != "" {
		logger.Info("Loading content override", zap.String("path", cfg.ContentPath))
		return content.LoadFile(cfg.ContentPath)
	}
	return content.Load()
}

func assetVersion() string {
	if BuildVersion != "" {
		return BuildVersion
	}
	return strconv.FormatInt(time.Now().Unix(), 10)
}
