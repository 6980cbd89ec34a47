package prompts_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	"github.com/shrreku/ai-studyagent/internal/prompts/generate"
	"github.com/shrreku/ai-studyagent/internal/prompts/preview"
	"github.com/shrreku/ai-studyagent/internal/prompts/structure"
	"github.com/shrreku/ai-studyagent/internal/prompts/tutor"
)

func newResolver(t *testing.T, dir string) *prompts.Resolver {
	t.Helper()
	var store *prompts.Store
	if dir != "" {
		store = prompts.NewStore(dir, nil)
	}
	r := prompts.NewResolver(store, nil)
	structure.RegisterPrompts(r)
	preview.RegisterPrompts(r)
	generate.RegisterPrompts(r)
	tutor.RegisterPrompts(r)
	return r
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Hello {{.Name}}, you have {{ .Count }} items", []string{"Count", "Name"}},
		{"{{- if .Days}}{{.Days}} days{{- end}}", []string{"Days"}},
		{"{{.Plan.Days}}", []string{"Plan.Days"}},
		{"no variables", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prompts.ExtractVariables(tt.text), tt.text)
	}
}

func TestRender(t *testing.T) {
	out, err := prompts.Render("greet", "Hi {{.Name}}", map[string]any{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", out)

	_, err = prompts.Render("missing", "Hi {{.Name}}", map[string]any{})
	require.Error(t, err)

	_, err = prompts.Render("broken", "Hi {{.Name", nil)
	require.Error(t, err)
}

func TestResolver_EmbeddedDefaults(t *testing.T) {
	r := newResolver(t, "")

	keys := []string{
		structure.SystemPromptKey, structure.CorePromptKey, structure.SchedulePromptKey,
		structure.FormulasPromptKey, structure.SinglePromptKey, structure.RetryPromptKey,
		preview.PromptKey, generate.PromptKey, tutor.SystemPromptKey, tutor.UserPromptKey,
	}
	for _, key := range keys {
		p, err := r.Resolve(key)
		require.NoError(t, err, key)
		assert.False(t, p.IsOverride, key)
		assert.NotEmpty(t, p.Text, key)
		assert.Equal(t, prompts.HashText(p.Text), p.Hash, key)
	}

	_, err := r.Resolve("structure.unknown")
	require.Error(t, err)
}

func TestResolver_RenderStructurePrompts(t *testing.T) {
	r := newResolver(t, "")

	system, _, err := r.Render(structure.SystemPromptKey, structure.SystemData{Template: `{"overall_goal": "[GOAL]"}`})
	require.NoError(t, err)
	assert.Contains(t, system, "```json\n{\"overall_goal\": \"[GOAL]\"}\n```")
	assert.Contains(t, system, "NEVER modify the total_study_day or hour_per_day")

	core, _, err := r.Render(structure.CorePromptKey, structure.UserData{RawPlan: "Day 1: limits", Days: 3, Hours: 2.5})
	require.NoError(t, err)
	assert.Contains(t, core, "Day 1: limits")
	assert.Contains(t, core, "exactly 3 study days")
	assert.Contains(t, core, "2.5 hours per day")
	assert.Contains(t, core, "core_concepts (limit to 5 max)")
	assert.NotContains(t, core, "simplified data")

	schedule, _, err := r.Render(structure.SchedulePromptKey, structure.UserData{RawPlan: "plan", Simplified: `{"overall_goal": "x"}`})
	require.NoError(t, err)
	assert.Contains(t, schedule, "Here's the simplified data extracted from the overview:\n{\"overall_goal\": \"x\"}")
	assert.NotContains(t, schedule, "exactly")

	retry, _, err := r.Render(structure.RetryPromptKey, structure.UserData{RawPlan: "plan"})
	require.NoError(t, err)
	assert.Contains(t, retry, "starting with {")
}

func TestResolver_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tutor.SystemPromptKey+".tmpl"), []byte("You are a patient tutor."), 0o644))

	r := newResolver(t, dir)

	p, err := r.Resolve(tutor.SystemPromptKey)
	require.NoError(t, err)
	assert.True(t, p.IsOverride)
	assert.Equal(t, "You are a patient tutor.", p.Text)

	embedded, ok := r.GetEmbedded(tutor.SystemPromptKey)
	require.True(t, ok)
	assert.NotEqual(t, embedded.Hash, p.Hash)

	var found bool
	for _, listed := range r.List() {
		if listed.Key == tutor.SystemPromptKey {
			found = true
			assert.True(t, listed.IsOverride)
			assert.Equal(t, p.Hash, listed.ActiveHash)
		}
	}
	assert.True(t, found)

	overrides, err := prompts.NewStore(dir, nil).List()
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, tutor.SystemPromptKey, overrides[0].Key)
}

func TestResolver_ListSorted(t *testing.T) {
	list := newResolver(t, "").List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Key, list[i].Key)
	}
}

func TestStore_InvalidKey(t *testing.T) {
	_, err := prompts.NewStore(t.TempDir(), nil).Get("../etc/passwd")
	require.Error(t, err)
}

func TestLoadPlanTemplate(t *testing.T) {
	t.Run("empty path uses built-in", func(t *testing.T) {
		got, err := prompts.LoadPlanTemplate("", nil)
		require.NoError(t, err)
		assert.Equal(t, prompts.DefaultPlanTemplate(), got)
		assert.Contains(t, got, "total_study_day")
	})

	t.Run("missing file uses built-in", func(t *testing.T) {
		got, err := prompts.LoadPlanTemplate(filepath.Join(t.TempDir(), "nope.json"), nil)
		require.NoError(t, err)
		assert.Equal(t, prompts.DefaultPlanTemplate(), got)
	})

	t.Run("custom file is indented", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "template.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"overall_goal":"[GOAL]"}`), 0o644))
		got, err := prompts.LoadPlanTemplate(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"overall_goal\": \"[GOAL]\"\n}", got)
	})

	t.Run("invalid JSON is a configuration error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "template.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"overall_goal":`), 0o644))
		_, err := prompts.LoadPlanTemplate(path, nil)
		require.Error(t, err)
		assert.True(t, plan.IsKind(err, plan.KindConfiguration))
		assert.True(t, strings.Contains(err.Error(), "not valid JSON"))
	})
}
