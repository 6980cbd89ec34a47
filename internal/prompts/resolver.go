package prompts

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Resolver resolves prompts with file overrides.
// Resolution order: override file > embedded default
type Resolver struct {
	store    *Store
	embedded map[string]EmbeddedPrompt
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewResolver creates a new prompt resolver. store may be nil.
func NewResolver(store *Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:    store,
		embedded: make(map[string]EmbeddedPrompt),
		logger:   logger,
	}
}

// Register registers an embedded prompt.
// This should be called during initialization by each stage package.
func (r *Resolver) Register(prompt EmbeddedPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prompt.Hash == "" {
		prompt.Hash = HashText(prompt.Text)
	}
	if prompt.Variables == nil {
		prompt.Variables = ExtractVariables(prompt.Text)
	}

	r.embedded[prompt.Key] = prompt
	r.logger.Debug("registered embedded prompt", "key", prompt.Key, "vars", prompt.Variables)
}

// SetStore swaps the override store, e.g. after a config reload.
func (r *Resolver) SetStore(store *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store = store
}

// Resolve returns the override for key if one exists, otherwise the embedded default.
func (r *Resolver) Resolve(key string) (*ResolvedPrompt, error) {
	r.mu.RLock()
	store := r.store
	embedded, ok := r.embedded[key]
	r.mu.RUnlock()

	if store != nil {
		override, err := store.Get(key)
		if err != nil {
			r.logger.Warn("failed to check prompt override", "key", key, "error", err)
			// Fall through to embedded default
		} else if override != nil {
			return &ResolvedPrompt{
				Key:        key,
				Text:       override.Text,
				Variables:  ExtractVariables(override.Text),
				IsOverride: true,
				Hash:       HashText(override.Text),
			}, nil
		}
	}

	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", key)
	}

	return &ResolvedPrompt{
		Key:       key,
		Text:      embedded.Text,
		Variables: embedded.Variables,
		Hash:      embedded.Hash,
	}, nil
}

// Render resolves key and executes it against data.
func (r *Resolver) Render(key string, data any) (string, *ResolvedPrompt, error) {
	p, err := r.Resolve(key)
	if err != nil {
		return "", nil, err
	}
	text, err := Render(key, p.Text, data)
	if err != nil {
		return "", p, err
	}
	return text, p, nil
}

// GetEmbedded returns the embedded default for a key.
func (r *Resolver) GetEmbedded(key string) (*EmbeddedPrompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.embedded[key]
	return &p, ok
}

// List returns every registered prompt, sorted by key, with override status.
func (r *Resolver) List() []Prompt {
	r.mu.RLock()
	embedded := make([]EmbeddedPrompt, 0, len(r.embedded))
	for _, p := range r.embedded {
		embedded = append(embedded, p)
	}
	r.mu.RUnlock()

	sort.Slice(embedded, func(i, j int) bool { return embedded[i].Key < embedded[j].Key })

	out := make([]Prompt, 0, len(embedded))
	for _, e := range embedded {
		p := Prompt{
			Key:          e.Key,
			Description:  e.Description,
			Variables:    e.Variables,
			EmbeddedHash: e.Hash,
			ActiveHash:   e.Hash,
		}
		if resolved, err := r.Resolve(e.Key); err == nil && resolved.IsOverride {
			p.IsOverride = true
			p.ActiveHash = resolved.Hash
			p.Variables = resolved.Variables
		}
		out = append(out, p)
	}
	return out
}
