package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/config"
	"github.com/shrreku/ai-studyagent/internal/home"
	"github.com/shrreku/ai-studyagent/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "studyagent",
	Short: "Study plan structuring backend",
	Long: `studyagent turns study materials and free-form study plans into
validated, structured plans a study dashboard can render.

It provides:
  - Plan generation from uploaded notes and practice questions
  - Chunked or single-shot structuring with retries and repair
  - A regex fallback when no language model is configured
  - A study tutor chat`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.studyagent/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "studyagent home directory (default: ~/.studyagent)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml, json or text",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the home directory and loads configuration from it.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}

// newLogger writes text logs to w at the configured level.
func newLogger(cfg *config.Config, w *os.File) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
