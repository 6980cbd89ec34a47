// Package llmcall provides LLM call recording and querying for traceability.
// Every completion is recorded with its prompt key, prompt hash, response and
// token counts, and kept in a bounded in-memory history.
package llmcall

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shrreku/ai-studyagent/internal/providers"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms"`

	// Request this call belongs to; one structuring run makes several calls.
	RequestID string `json:"request_id,omitempty"`
	Attempt   int    `json:"attempt,omitempty"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty"` // SHA256 of the prompt text actually sent

	// Model info
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`

	// Token usage
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd,omitempty"`

	// Response
	Response string `json:"response"`

	// Status
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	RequestID string
	Attempt   int

	// Prompt identification (required for traceability)
	PromptKey  string
	PromptHash string

	// Request parameters (pointer to distinguish "not set" from "set to 0")
	Temperature *float64

	// Err is the error the call returned, if any.
	Err error

	// Optional logger for non-fatal warnings.
	Logger *slog.Logger
}

// FromChatResult creates a Call from a ChatResult. A nil result still
// yields a record when opts.Err is set, so transport failures that never
// produced a result stay visible.
func FromChatResult(result *providers.ChatResult, opts RecordOptions) *Call {
	if result == nil && opts.Err == nil {
		return nil
	}

	call := &Call{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		RequestID:   opts.RequestID,
		Attempt:     opts.Attempt,
		PromptKey:   opts.PromptKey,
		PromptHash:  opts.PromptHash,
		Temperature: opts.Temperature,
	}

	if result != nil {
		call.LatencyMs = int(result.ExecutionTime.Milliseconds())
		call.Provider = result.Provider
		call.Model = result.ModelUsed
		call.InputTokens = result.PromptTokens
		call.OutputTokens = result.CompletionTokens
		call.CostUSD = result.CostUSD
		call.Response = result.Content
		call.Success = result.Success
		if !result.Success {
			call.Error = result.ErrorMessage
		}
	}
	if opts.Err != nil {
		call.Success = false
		call.Error = opts.Err.Error()
	}

	return call
}
