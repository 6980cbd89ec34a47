package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no completion client is available,
// usually because the API key is missing.
var ErrNotConfigured = errors.New("no LLM provider configured")

// ErrEmptyCompletion is returned when the provider answered with no text.
var ErrEmptyCompletion = errors.New("no response received")

// LLMClient is the interface every completion backend implements.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openrouter").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	// Response content
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Cost and timing
	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	// Success/error
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SystemUser builds the two-message conversation every stage sends.
func SystemUser(system, user string) []Message {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: "system", Content: system})
	}
	return append(msgs, Message{Role: "user", Content: user})
}

// Complete sends req and returns the response text. A nil client yields
// ErrNotConfigured. Content is returned trimmed; an empty completion is an
// error so callers never parse "".
func Complete(ctx context.Context, client LLMClient, req *ChatRequest) (string, *ChatResult, error) {
	if client == nil {
		return "", nil, ErrNotConfigured
	}
	result, err := client.Chat(ctx, req)
	if err != nil {
		return "", result, err
	}
	if result == nil {
		return "", nil, fmt.Errorf("%s returned no result", client.Name())
	}
	text := strings.TrimSpace(result.Content)
	if text == "" {
		return "", result, fmt.Errorf("%s: %w", client.Name(), ErrEmptyCompletion)
	}
	return text, result, nil
}
