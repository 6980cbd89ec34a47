// Package preview holds the prompt for the human-readable plan preview.
package preview

import (
	_ "embed"

	"github.com/shrreku/ai-studyagent/internal/prompts"
)

//go:embed preview.tmpl
var previewPrompt string

// PromptKey is the resolver key for the preview prompt.
const PromptKey = "preview.plan"

// Data fills the preview prompt.
type Data struct {
	Materials string
	Days      int
	Hours     float64
}

// RegisterPrompts registers the preview prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         PromptKey,
		Text:        previewPrompt,
		Description: "Preview plan with overview sections and a simplified JSON block",
	})
}
