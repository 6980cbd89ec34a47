package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the studyagent server",
	Long: `Start the studyagent HTTP server.

The server reloads its config file on change: providers, structuring
mode and hours mode take effect for the next request.

The server provides:
  - /health      - Basic server health check
  - /status      - Providers and structuring settings
  - /api/...     - Plan structuring, generation, upload and chat
  - /metrics     - Prometheus metrics
  - /swagger     - API documentation

Examples:
  studyagent serve                    # Start on the configured port (8000)
  studyagent serve --port 3000        # Start on custom port
  studyagent serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		logger := newLogger(mgr.Get(), os.Stdout)
		mgr.SetLogger(logger)
		if f := mgr.ConfigFile(); f != "" {
			logger.Info("loaded config", "file", f)
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: server.host from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default: server.port from config)")

	rootCmd.AddCommand(serveCmd)
}
