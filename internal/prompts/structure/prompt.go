// Package structure holds the prompts used to turn a raw study plan into
// structured JSON.
package structure

import (
	_ "embed"

	"github.com/shrreku/ai-studyagent/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

//go:embed core.tmpl
var corePrompt string

//go:embed schedule.tmpl
var schedulePrompt string

//go:embed formulas.tmpl
var formulasPrompt string

//go:embed single.tmpl
var singlePrompt string

//go:embed retry.tmpl
var retryPrompt string

// Prompt keys
const (
	SystemPromptKey   = "structure.system"
	CorePromptKey     = "structure.core"
	SchedulePromptKey = "structure.schedule"
	FormulasPromptKey = "structure.formulas"
	SinglePromptKey   = "structure.single"
	RetryPromptKey    = "structure.retry"
)

// SystemData fills the system prompt.
type SystemData struct {
	Template string // pretty-printed plan template JSON
}

// UserData fills every user prompt. Zero Days or Hours are omitted.
type UserData struct {
	RawPlan    string
	Simplified string // indented simplified JSON from the preview, if any
	Days       int
	Hours      float64
}

// RegisterPrompts registers the structuring prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         SystemPromptKey,
		Text:        systemPrompt,
		Description: "Structurer system prompt - embeds the plan template and output rules",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         CorePromptKey,
		Text:        corePrompt,
		Description: "Chunked mode: goal, day/hour totals, core concepts and tips",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         SchedulePromptKey,
		Text:        schedulePrompt,
		Description: "Chunked mode: daily schedule array",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         FormulasPromptKey,
		Text:        formulasPrompt,
		Description: "Chunked mode: key formulas array",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         SinglePromptKey,
		Text:        singlePrompt,
		Description: "Single-shot mode: full plan in one call",
	})
	r.Register(prompts.EmbeddedPrompt{
		Key:         RetryPromptKey,
		Text:        retryPrompt,
		Description: "Strict JSON-only retry after an unparseable response",
	})
}
