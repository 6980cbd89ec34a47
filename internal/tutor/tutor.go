// Package tutor answers free-form student questions against their study
// materials and plan.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	tutorprompt "github.com/shrreku/ai-studyagent/internal/prompts/tutor"
	"github.com/shrreku/ai-studyagent/internal/providers"
)

// ExcerptChars is how much of each context is shown to the model.
const ExcerptChars = 200

// EmptyAnswer replaces a blank model reply.
const EmptyAnswer = "I'm sorry, I couldn't generate a specific response for that. Could you try rephrasing or providing more context?"

// ErrEmptyQuery is returned when the query is blank.
var ErrEmptyQuery = errors.New("user query is empty")

// ChatRequest is one student message.
type ChatRequest struct {
	UserQuery             string  `json:"user_query"`
	SessionID             string  `json:"session_id"`
	StudyMaterialsContext *string `json:"study_materials_context,omitempty"`
	StudyPlanContext      *string `json:"study_plan_context,omitempty"`
}

// ChatResponse is the tutor's reply.
type ChatResponse struct {
	AIResponse string         `json:"ai_response"`
	SessionID  string         `json:"session_id"`
	DebugInfo  map[string]any `json:"debug_info,omitempty"`
}

// ClientSource yields the completion client.
type ClientSource interface {
	Default() (providers.LLMClient, error)
}

// Config configures a Tutor.
type Config struct {
	Clients     ClientSource
	Prompts     *prompts.Resolver
	Model       string
	Temperature float64
	MaxTokens   int
	CallTimeout time.Duration
	Recorder    *llmcall.Recorder
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
}

// Tutor answers chat messages.
type Tutor struct {
	cfg Config
}

// New creates a Tutor.
func New(cfg Config) *Tutor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompts.NewResolver(nil, cfg.Logger)
		tutorprompt.RegisterPrompts(cfg.Prompts)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	return &Tutor{cfg: cfg}
}

// Ask answers req. Errors are *plan.Error values tagged KindConfiguration
// when no model is available and KindTransport when the call fails.
func (t *Tutor) Ask(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.UserQuery) == "" {
		return nil, ErrEmptyQuery
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	logger := t.cfg.Logger.With("session_id", sessionID)

	if t.cfg.Clients == nil {
		return nil, plan.Wrap(plan.KindConfiguration, "tutor", providers.ErrNotConfigured)
	}
	client, err := t.cfg.Clients.Default()
	if err != nil {
		return nil, plan.Wrap(plan.KindConfiguration, "tutor", err)
	}

	system, _, err := t.cfg.Prompts.Render(tutorprompt.SystemPromptKey, nil)
	if err != nil {
		return nil, plan.Wrap(plan.KindConfiguration, "tutor", err)
	}
	user, resolved, err := t.cfg.Prompts.Render(tutorprompt.UserPromptKey, tutorprompt.UserData{
		Query:     req.UserQuery,
		Reference: Reference(req.StudyMaterialsContext, req.StudyPlanContext),
	})
	if err != nil {
		return nil, plan.Wrap(plan.KindConfiguration, "tutor", err)
	}

	callCtx := ctx
	if t.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.cfg.CallTimeout)
		defer cancel()
	}

	temperature := t.cfg.Temperature
	answer, result, err := providers.Complete(callCtx, client, &providers.ChatRequest{
		Messages:    providers.SystemUser(system, user),
		Model:       t.cfg.Model,
		Temperature: temperature,
		MaxTokens:   t.cfg.MaxTokens,
	})
	t.cfg.Recorder.Record(result, llmcall.RecordOptions{
		RequestID:   sessionID,
		Attempt:     1,
		PromptKey:   tutorprompt.UserPromptKey,
		PromptHash:  resolved.Hash,
		Temperature: &temperature,
		Err:         err,
		Logger:      logger,
	})
	t.cfg.Metrics.RecordLLMCall(tutorprompt.UserPromptKey, result, err)

	switch {
	case errors.Is(err, providers.ErrEmptyCompletion):
		logger.Warn("tutor returned an empty response")
		answer = EmptyAnswer
	case err != nil:
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, &plan.Error{Kind: plan.KindTransport, Op: "tutor", Message: "completion timed out", Err: err}
		}
		return nil, plan.Wrap(plan.KindTransport, "tutor", fmt.Errorf("error processing chat request: %w", err))
	}

	debug := map[string]any{}
	if result != nil {
		debug["provider"] = result.Provider
		debug["model"] = result.ModelUsed
		debug["latency_ms"] = result.ExecutionTime.Milliseconds()
	}
	return &ChatResponse{AIResponse: answer, SessionID: sessionID, DebugInfo: debug}, nil
}

// Reference builds the reference block from excerpts of the materials and
// plan. It returns "" when neither is set.
func Reference(materials, studyPlan *string) string {
	var parts []string
	if materials != nil && *materials != "" {
		parts = append(parts, "Reference Study Materials (first 200 chars):\n"+excerpt(*materials)+"...")
	}
	if studyPlan != nil && *studyPlan != "" {
		parts = append(parts, "Reference Study Plan (first 200 chars):\n"+excerpt(*studyPlan)+"...")
	}
	return strings.Join(parts, "\n\n")
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= ExcerptChars {
		return s
	}
	return string(r[:ExcerptChars])
}
