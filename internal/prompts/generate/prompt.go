// Package generate holds the prompt that drafts a raw study plan from
// uploaded materials.
package generate

import (
	_ "embed"

	"github.com/shrreku/ai-studyagent/internal/prompts"
)

//go:embed generate.tmpl
var generatePrompt string

// PromptKey is the resolver key for the raw plan prompt.
const PromptKey = "generate.plan"

// Data fills the generate prompt.
type Data struct {
	Notes     string
	Questions string
	Days      int
	Hours     float64
}

// RegisterPrompts registers the generate prompt with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         PromptKey,
		Text:        generatePrompt,
		Description: "Drafts a markdown study plan from notes and questions",
	})
}
