package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Cascade(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		strategy Strategy
		wantKey  string
	}{
		{
			name:     "plain object",
			input:    `{"overall_goal": "Pass the exam"}`,
			strategy: StrategyDirect,
			wantKey:  "overall_goal",
		},
		{
			name:     "surrounding whitespace",
			input:    "\n\n  {\"overall_goal\": \"x\"}  \n",
			strategy: StrategyDirect,
			wantKey:  "overall_goal",
		},
		{
			name:     "json tagged fence",
			input:    "Here is your plan:\n```json\n{\"overall_goal\": \"x\"}\n```\nGood luck!",
			strategy: StrategyFenced,
			wantKey:  "overall_goal",
		},
		{
			name:     "untagged fence",
			input:    "```\n{\"general_tip\": [\"sleep\"]}\n```",
			strategy: StrategyFenced,
			wantKey:  "general_tip",
		},
		{
			name:     "upper case tag",
			input:    "```JSON\n{\"key_formulas\": []}\n```",
			strategy: StrategyFenced,
			wantKey:  "key_formulas",
		},
		{
			name:     "prose before and after",
			input:    "Sure! Below is the JSON you asked for.\n{\"core_concepts\": [{\"name\": \"a\"}]}\nLet me know if you need more.",
			strategy: StrategyBrace,
			wantKey:  "core_concepts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, res.Strategy)
			obj, ok := res.Object()
			require.True(t, ok)
			assert.Contains(t, obj, tt.wantKey)
		})
	}
}

func TestExtract_BrokenFenceFallsThrough(t *testing.T) {
	input := "```json\n{oops}\n```\nCorrected: {\"ok\": true}"

	_, err := Extract(input)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := Extractor{Balanced: true}.Extract(input)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, res.Value)
}

func TestExtract_FirstFenceWins(t *testing.T) {
	input := "```json\n{\"n\": 1}\n```\nand also\n```json\n{\"n\": 2}\n```"
	res, err := Extract(input)
	require.NoError(t, err)
	obj, _ := res.Object()
	assert.Equal(t, 1.0, obj["n"])
}

func TestExtract_RoundTrip(t *testing.T) {
	values := []any{
		map[string]any{"a": 1.0, "b": []any{"x", true, nil}},
		map[string]any{"nested": map[string]any{"deep": map[string]any{"k": "v"}}},
		[]any{1.0, 2.0, 3.0},
		"just a string",
		42.5,
		map[string]any{"formula": "f(x) = {x | x > 0}"},
	}

	wrappers := map[string]func(string) string{
		"bare":         func(s string) string { return s },
		"tagged fence": func(s string) string { return "```json\n" + s + "\n```" },
		"plain fence":  func(s string) string { return "```\n" + s + "\n```" },
		"prose fence":  func(s string) string { return "Plan below.\n```json\n" + s + "\n```\nDone." },
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		for name, wrap := range wrappers {
			res, err := Extract(wrap(string(data)))
			require.NoError(t, err, "%s: %s", name, data)
			assert.Equal(t, v, res.Value, "%s: %s", name, data)
		}
	}
}

func TestExtract_NotFound(t *testing.T) {
	for _, input := range []string{"", "   ", "no json here", "{ unterminated", "} backwards {"} {
		_, err := Extract(input)
		assert.ErrorIs(t, err, ErrNotFound, "input %q", input)
	}
}

func TestExtract_GreedyLimitation(t *testing.T) {
	input := `First {"a": 1} and second {"b": 2}`

	_, err := Extract(input)
	assert.ErrorIs(t, err, ErrNotFound, "greedy span joins both objects")

	res, err := Extractor{Balanced: true}.Extract(input)
	require.NoError(t, err)
	assert.Equal(t, StrategyBalanced, res.Strategy)
	assert.Equal(t, map[string]any{"a": 1.0}, res.Value)
}

func TestExtractor_Balanced(t *testing.T) {
	t.Run("braces inside strings", func(t *testing.T) {
		input := `noise {"f": "{ not closed"} tail }`
		_, err := Extract(input)
		assert.ErrorIs(t, err, ErrNotFound)

		res, err := Extractor{Balanced: true}.Extract(input)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"f": "{ not closed"}, res.Value)
	})

	t.Run("escaped quotes", func(t *testing.T) {
		input := `Answer: {"q": "say \"hi}\" now", "n": 2} (end})`
		res, err := Extractor{Balanced: true}.Extract(input)
		require.NoError(t, err)
		obj, _ := res.Object()
		assert.Equal(t, `say "hi}" now`, obj["q"])
	})

	t.Run("skips invalid candidate", func(t *testing.T) {
		input := `{not json} then {"ok": true}`
		res, err := Extractor{Balanced: true}.Extract(input)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ok": true}, res.Value)
	})

	t.Run("prose quotes before object", func(t *testing.T) {
		input := `The "plan" you wanted: {"day": 1}`
		res, err := Extractor{Balanced: true}.Extract(input)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"day": 1.0}, res.Value)
	})

	t.Run("direct and fenced still run first", func(t *testing.T) {
		res, err := Extractor{Balanced: true}.Extract("```json\n{\"a\": 1}\n```")
		require.NoError(t, err)
		assert.Equal(t, StrategyFenced, res.Strategy)
	})
}

func TestExtractArray(t *testing.T) {
	t.Run("array with prose", func(t *testing.T) {
		out, err := ExtractArray("Schedule:\n[{\"day\": 1}, {\"day\": 2}]\nThat's all.")
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("no array", func(t *testing.T) {
		_, err := ExtractArray("nothing to see")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("array of scalars is ignored", func(t *testing.T) {
		_, err := ExtractArray(`["a", "b"]`)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
