// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration, sets up logging and builds the shared feed loader

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/rssedit/internal/config"
	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/loader"
	"github.com/harper/rssedit/internal/logging"
)

var (
	configPath string
	logLevel   string
	logJSON    bool
	cfg        *config.Config
	feedLoader *loader.Loader
)

var rootCmd = &cobra.Command{
	Use:   "rssedit",
	Short: "Load, inspect, edit and regenerate RSS/Atom feeds",
	Long: `
██████╗ ███████╗███████╗███████╗██████╗ ██╗████████╗
██╔══██╗██╔════╝██╔════╝██╔════╝██╔══██╗██║╚══██╔══╝
██████╔╝███████╗███████╗█████╗  ██║  ██║██║   ██║
██╔══██╗╚════██║╚════██║██╔══╝  ██║  ██║██║   ██║
██║  ██║███████║███████║███████╗██████╔╝██║   ██║
╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝╚═════╝ ╚═╝   ╚═╝

RSS/Atom feed editor for humans and AI agents.

Fetch a feed, flatten its items into editable records, change fields,
and write the result back out as XML. Also runs as an HTTP API and an
MCP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-json") {
			cfg.LogJSON = logJSON
		}
		if err := logging.Init(cfg.LoggingOptions()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		feedLoader = loader.New(fetch.New(cfg.FetchOptions()), cfg.RetryOptions()...)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/rssedit/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
}
