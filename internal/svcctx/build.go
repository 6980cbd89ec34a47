package svcctx

import (
	"fmt"
	"log/slog"

	"github.com/shrreku/ai-studyagent/internal/config"
	"github.com/shrreku/ai-studyagent/internal/extract"
	"github.com/shrreku/ai-studyagent/internal/home"
	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	"github.com/shrreku/ai-studyagent/internal/prompts/generate"
	"github.com/shrreku/ai-studyagent/internal/prompts/preview"
	"github.com/shrreku/ai-studyagent/internal/prompts/structure"
	tutorprompt "github.com/shrreku/ai-studyagent/internal/prompts/tutor"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/structurer"
	"github.com/shrreku/ai-studyagent/internal/tutor"
	"github.com/shrreku/ai-studyagent/internal/validate"
	"github.com/shrreku/ai-studyagent/internal/workflow"
)

// Options are the long-lived pieces Build wires around. Everything else is
// derived from Config, so a config reload can call Build again with the
// same Options and a new Config.
type Options struct {
	Config   *config.Config
	Home     *home.Dir
	Registry *providers.Registry // nil builds one from Config
	Calls    *llmcall.Store      // nil keeps no call history
	Sink     *llmcall.SnapshotSink
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// Build assembles the structuring pipeline and the flows around it.
func Build(opts Options) (*Services, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := opts.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())
	}

	promptsDir := cfg.Structurer.PromptsDir
	if promptsDir == "" && opts.Home != nil {
		promptsDir = opts.Home.PromptsPath()
	}
	resolver := prompts.NewResolver(prompts.NewStore(promptsDir, logger), logger)
	structure.RegisterPrompts(resolver)
	generate.RegisterPrompts(resolver)
	preview.RegisterPrompts(resolver)
	tutorprompt.RegisterPrompts(resolver)

	template, err := prompts.LoadPlanTemplate(cfg.Structurer.TemplatePath, logger)
	if err != nil {
		return nil, err
	}

	sink := opts.Sink
	if !cfg.Structurer.SaveSnapshots {
		sink = nil
	}
	recorder := llmcall.NewRecorder(opts.Calls, sink)

	policy := structurer.DefaultPolicy()
	if cfg.Structurer.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Structurer.MaxAttempts
	}

	validator, err := validate.New()
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan schema: %w", err)
	}

	model := cfg.DefaultModel()
	svc, err := structurer.NewService(structurer.Config{
		Assembler: structurer.Assembler{
			Model:        model,
			Mode:         cfg.StructurerMode(),
			Parallel:     cfg.Structurer.ParallelChunks,
			Workers:      cfg.Defaults.MaxWorkers,
			CallTimeout:  cfg.CallTimeout(),
			Temperature:  cfg.Structurer.Temperature,
			MaxTokens:    cfg.Structurer.MaxTokens,
			Policy:       policy,
			Prompts:      resolver,
			PlanTemplate: template,
			Extractor:    extract.Extractor{Balanced: cfg.Structurer.BalancedExtraction},
			Recorder:     recorder,
			Metrics:      opts.Metrics,
			Logger:       logger,
		},
		Clients:   registry,
		Validator: validator,
		HoursMode: cfg.HoursMode(),
	})
	if err != nil {
		return nil, err
	}

	wf := workflow.New(workflow.Config{
		Structurer:  svc,
		Clients:     registry,
		Prompts:     resolver,
		Model:       model,
		Temperature: cfg.Structurer.Temperature,
		MaxTokens:   cfg.Structurer.MaxTokens,
		CallTimeout: cfg.CallTimeout(),
		Recorder:    recorder,
		Metrics:     opts.Metrics,
		Logger:      logger,
	})

	tu := tutor.New(tutor.Config{
		Clients:     registry,
		Prompts:     resolver,
		Model:       model,
		Temperature: cfg.Structurer.Temperature,
		MaxTokens:   cfg.Structurer.MaxTokens,
		CallTimeout: cfg.CallTimeout(),
		Recorder:    recorder,
		Metrics:     opts.Metrics,
		Logger:      logger,
	})

	return &Services{
		Config:     cfg,
		Home:       opts.Home,
		Registry:   registry,
		Prompts:    resolver,
		Structurer: svc,
		Workflow:   wf,
		Tutor:      tu,
		Recorder:   recorder,
		Metrics:    opts.Metrics,
		Logger:     logger,
	}, nil
}
