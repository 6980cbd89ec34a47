package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/structurer"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
	"github.com/shrreku/ai-studyagent/internal/workflow"
)

var (
	structureDays      int
	structureHours     float64
	structureMode      string
	structureHoursMode string
	structureFallback  bool
)

var structureCmd = &cobra.Command{
	Use:   "structure <file>",
	Short: "Structure a raw study plan without starting the server",
	Long: `Structure a raw study plan file in-process and print the frontend plan.

Providers, model and retry settings come from the config file. With
--fallback no language model is called; day headings and bullet points
in the file are used directly.

Examples:
  studyagent structure plan.md
  studyagent structure plan.md --days 5 --hours 3 --mode single
  studyagent structure notes.txt --fallback -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()
		logger := newLogger(cfg, os.Stderr)

		svcs, err := svcctx.Build(svcctx.Options{Config: cfg, Home: h, Logger: logger})
		if err != nil {
			return err
		}

		hoursMode := cfg.HoursMode()
		if structureHoursMode != "" {
			if hoursMode, err = plan.ParseHoursMode(structureHoursMode); err != nil {
				return err
			}
		}

		var resp plan.Response
		if structureFallback {
			days, hours := workflow.DefaultStudyDays, workflow.DefaultStudyHours
			if cmd.Flags().Changed("days") {
				days = structureDays
			}
			if cmd.Flags().Changed("hours") {
				hours = structureHours
			}
			if err := structurer.CheckConstraints(&days, &hours); err != nil {
				return err
			}
			resp = svcs.Workflow.Fallback(string(text), days, hours, hoursMode)
		} else {
			req := structurer.Request{RawPlanText: string(text), HoursMode: hoursMode}
			if structureMode != "" {
				if req.Mode, err = structurer.ParseMode(structureMode); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("days") {
				req.Days = &structureDays
			}
			if cmd.Flags().Changed("hours") {
				req.Hours = &structureHours
			}
			resp = svcs.Structurer.Structure(cmd.Context(), req)
		}

		if err := api.Output(resp); err != nil {
			return err
		}
		if resp.Failed() {
			return fmt.Errorf("%s", resp.Failure.Error)
		}
		return nil
	},
}

func init() {
	structureCmd.Flags().IntVar(&structureDays, "days", 0, "Requested number of study days")
	structureCmd.Flags().Float64Var(&structureHours, "hours", 0, "Requested study hours per day")
	structureCmd.Flags().StringVar(&structureMode, "mode", "", "Structuring mode: chunked or single (default from config)")
	structureCmd.Flags().StringVar(&structureHoursMode, "hours-mode", "", "Hours mode: overwrite or redistribute (default from config)")
	structureCmd.Flags().BoolVar(&structureFallback, "fallback", false, "Skip the language model and use the regex fallback")

	rootCmd.AddCommand(structureCmd)
}
