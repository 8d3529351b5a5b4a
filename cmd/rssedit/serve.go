// ABOUTME: Serve command running the HTTP API
// ABOUTME: Stops gracefully on SIGINT or SIGTERM

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/harper/rssedit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API:

  POST /api/rss           {"url": "..."}  load and parse a feed
  POST /api/rss/parse     raw XML body     parse a feed
  POST /api/rss/generate  {"feed": {...}}  download regenerated XML
  GET  /healthz
  GET  /metrics           Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ListenAddr
		}
		if os.Getenv("GIN_MODE") == "" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.New(cfg, feedLoader).Run(ctx, addr); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default: listen_addr from config)")
}
