// Package prompts provides prompt management with embedded defaults and
// file-based overrides.
//
// Embedded .tmpl files in each stage package are the source of truth. A
// deployment can override any prompt by dropping <key>.tmpl into the
// configured prompts directory.
//
// Resolution order for a key:
//  1. Override file (<prompts_dir>/<key>.tmpl, if it exists)
//  2. Embedded default
package prompts

import "time"

// Prompt is the listing form of a registered prompt.
type Prompt struct {
	Key          string   `json:"key"`
	Description  string   `json:"description,omitempty"`
	Variables    []string `json:"variables,omitempty"`
	EmbeddedHash string   `json:"embedded_hash"`
	ActiveHash   string   `json:"active_hash"`
	IsOverride   bool     `json:"is_override"`
}

// Override is a prompt text read from the overrides directory.
type Override struct {
	Key     string    `json:"key"`
	Text    string    `json:"text"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
}

// ResolvedPrompt is the text that will actually be sent for a key.
type ResolvedPrompt struct {
	Key        string   `json:"key"`
	Text       string   `json:"text"`
	Variables  []string `json:"variables,omitempty"`
	IsOverride bool     `json:"is_override"`
	Hash       string   `json:"hash"` // SHA256 of Text, recorded with each LLM call
}

// EmbeddedPrompt represents a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: structure.system
	Text        string   // The prompt text (Go template)
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}
