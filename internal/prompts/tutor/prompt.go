// Package tutor holds the study tutor prompts.
package tutor

import (
	_ "embed"

	"github.com/shrreku/ai-studyagent/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed user.tmpl
var userPrompt string

// Prompt keys
const (
	SystemPromptKey = "tutor.system"
	UserPromptKey   = "tutor.user"
)

// UserData fills the tutor user prompt.
type UserData struct {
	Query     string
	Reference string
}

// RegisterPrompts registers the tutor prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Tutor persona",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         UserPromptKey,
		Text:        userPrompt,
		Description: "Student query with reference excerpts",
	})
}
