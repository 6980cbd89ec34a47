// Package workflow drives the end-to-end plan flows: drafting a raw plan
// from uploaded materials, previewing it, and handing it to the structurer.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	"github.com/shrreku/ai-studyagent/internal/prompts/generate"
	"github.com/shrreku/ai-studyagent/internal/prompts/preview"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/structurer"
)

// ErrInvalidInput is wrapped by every request validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Durations used when a request leaves them out.
const (
	DefaultStudyDays  = 7
	DefaultStudyHours = 2.0
)

// Config configures a Workflow.
type Config struct {
	Structurer *structurer.Service
	Clients    structurer.ClientSource

	// Prompts defaults to a resolver with the generate and preview prompts.
	Prompts *prompts.Resolver

	Model       string
	Temperature float64
	MaxTokens   int
	CallTimeout time.Duration

	Recorder *llmcall.Recorder
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// Workflow runs the generate and preview flows.
type Workflow struct {
	structurer  *structurer.Service
	clients     structurer.ClientSource
	prompts     *prompts.Resolver
	model       string
	temperature float64
	maxTokens   int
	callTimeout time.Duration
	recorder    *llmcall.Recorder
	metrics     *metrics.Recorder
	logger      *slog.Logger
}

// New creates a Workflow.
func New(cfg Config) *Workflow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompts.NewResolver(nil, cfg.Logger)
		generate.RegisterPrompts(cfg.Prompts)
		preview.RegisterPrompts(cfg.Prompts)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = structurer.DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = structurer.DefaultMaxTokens
	}
	return &Workflow{
		structurer:  cfg.Structurer,
		clients:     cfg.Clients,
		prompts:     cfg.Prompts,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		callTimeout: cfg.CallTimeout,
		recorder:    cfg.Recorder,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

// CombineUploads joins notes and practice questions into one materials text.
func CombineUploads(notes, questions string) string {
	return fmt.Sprintf("Class Notes:\n%s\n\nPractice Questions:\n%s", notes, questions)
}

// checkDuration rejects requests whose total study time is not positive.
func checkDuration(days int, hours float64) error {
	if days <= 0 || hours <= 0 || float64(days)*hours <= 0 {
		return fmt.Errorf("%w: Total study hours must be positive.", ErrInvalidInput)
	}
	return nil
}

func (w *Workflow) client() (providers.LLMClient, error) {
	if w.clients == nil {
		return nil, providers.ErrNotConfigured
	}
	return w.clients.Default()
}

// complete renders key with data and sends it as a single user message.
func (w *Workflow) complete(ctx context.Context, client providers.LLMClient, requestID, key string, data any) (string, error) {
	text, resolved, err := w.prompts.Render(key, data)
	if err != nil {
		return "", plan.Wrap(plan.KindConfiguration, key, err)
	}

	callCtx := ctx
	if w.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.callTimeout)
		defer cancel()
	}

	temperature := w.temperature
	out, result, err := providers.Complete(callCtx, client, &providers.ChatRequest{
		Messages:    providers.SystemUser("", text),
		Model:       w.model,
		Temperature: temperature,
		MaxTokens:   w.maxTokens,
	})
	w.recorder.Record(result, llmcall.RecordOptions{
		RequestID:   requestID,
		Attempt:     1,
		PromptKey:   key,
		PromptHash:  resolved.Hash,
		Temperature: &temperature,
		Err:         err,
		Logger:      w.logger,
	})
	w.metrics.RecordLLMCall(key, result, err)

	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &plan.Error{Kind: plan.KindTransport, Op: key, Message: "completion timed out", Err: err}
		}
		return "", plan.Wrap(plan.KindTransport, key, err)
	}
	return out, nil
}

func newRequestID() string {
	return uuid.New().String()
}
