// Package cli implements the command-line interface for annotate.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kilupskalvis/annotate/internal/config"
	"github.com/kilupskalvis/annotate/internal/models"
	"github.com/kilupskalvis/annotate/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext loads config, opens the store, and builds the logger
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to open store: %v", err)
	}
	if err := st.Initialize(); err != nil {
		st.Close()
		exitError("failed to initialize store: %v", err)
	}

	level, format := cfg.LogLevel, cfg.LogFormat
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}

	return &cmdContext{
		Config: cfg,
		Store:  st,
		Logger: config.NewLogger(os.Stderr, level, format),
	}
}

// resolveImage returns the image argument, falling back to the current image
func (c *cmdContext) resolveImage(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	image, err := c.Store.GetCurrentImage()
	if err != nil || image == "" {
		exitError("no image given and no current image")
	}
	return image
}

// parseFormatFlag parses a --format value; empty means "use the stored or default format"
func parseFormatFlag(value string) models.Format {
	if value == "" {
		return ""
	}
	f, err := models.ParseFormat(value)
	if err != nil {
		exitError("%v", err)
	}
	return f
}

var rootCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Image annotation editor",
	Long: `annotate stores rectangle and segmentation annotations per image and
edits them through scripted, undoable operations.`,
}

var (
	logLevel  string
	logFormat string
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
