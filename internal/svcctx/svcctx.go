// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/shrreku/ai-studyagent/internal/config"
	"github.com/shrreku/ai-studyagent/internal/home"
	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/structurer"
	"github.com/shrreku/ai-studyagent/internal/tutor"
	"github.com/shrreku/ai-studyagent/internal/workflow"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Config     *config.Config // snapshot the services were built from
	Home       *home.Dir
	Registry   *providers.Registry
	Prompts    *prompts.Resolver
	Structurer *structurer.Service
	Workflow   *workflow.Workflow
	Tutor      *tutor.Tutor
	Recorder   *llmcall.Recorder
	Metrics    *metrics.Recorder
	Logger     *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// StructurerFrom extracts the structuring service from context.
func StructurerFrom(ctx context.Context) *structurer.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Structurer
	}
	return nil
}

// WorkflowFrom extracts the generate/preview workflow from context.
func WorkflowFrom(ctx context.Context) *workflow.Workflow {
	if s := ServicesFrom(ctx); s != nil {
		return s.Workflow
	}
	return nil
}

// TutorFrom extracts the chat tutor from context.
func TutorFrom(ctx context.Context) *tutor.Tutor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Tutor
	}
	return nil
}

// PromptsFrom extracts the prompt resolver from context.
func PromptsFrom(ctx context.Context) *prompts.Resolver {
	if s := ServicesFrom(ctx); s != nil {
		return s.Prompts
	}
	return nil
}

// LoggerFrom extracts the logger from context.
// Returns slog.Default() when no services are attached.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// ConfigFrom extracts the config snapshot from context.
func ConfigFrom(ctx context.Context) *config.Config {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LLMCallStoreFrom extracts the LLM call store from context.
func LLMCallStoreFrom(ctx context.Context) *llmcall.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Recorder.Store()
	}
	return nil
}

// MetricsFrom extracts the metrics recorder from context.
func MetricsFrom(ctx context.Context) *metrics.Recorder {
	if s := ServicesFrom(ctx); s != nil {
		return s.Metrics
	}
	return nil
}
