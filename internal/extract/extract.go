// Package extract recovers JSON values from free-form model output.
//
// Strategies run in a fixed order and stop at the first success:
//
//  1. parse the whole text
//  2. parse the interior of the first fenced code block (optionally tagged json)
//  3. parse the span from the first '{' to the last '}'
//
// Step 3 is greedy: braces inside string values or several independent
// objects in one response can defeat it. Extractor.Balanced swaps it for a
// depth-aware scanner that respects strings and tries each top-level object.
package extract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Strategy names the step that recovered a value.
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyFenced   Strategy = "fenced"
	StrategyBrace    Strategy = "brace"
	StrategyBalanced Strategy = "balanced"
	StrategyArray    Strategy = "array"
)

// ErrNotFound is returned when no strategy recovers a JSON value.
var ErrNotFound = errors.New("no JSON value recoverable from text")

var (
	fencePattern = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	arrayPattern = regexp.MustCompile(`\[\s*\{[\s\S]*?\}\s*\]`)
)

// Result is a recovered JSON value and how it was found.
type Result struct {
	Value    any
	Strategy Strategy
	Text     string // the substring that parsed
}

// Object returns the value as a JSON object, if it is one.
func (r Result) Object() (map[string]any, bool) {
	m, ok := r.Value.(map[string]any)
	return m, ok
}

// Array returns the value as a JSON array, if it is one.
func (r Result) Array() ([]any, bool) {
	a, ok := r.Value.([]any)
	return a, ok
}

// Extractor runs the strategy cascade.
type Extractor struct {
	// Balanced replaces the greedy brace span with a depth-aware scan.
	Balanced bool
}

// Extract runs the default cascade.
func Extract(text string) (Result, error) {
	return Extractor{}.Extract(text)
}

// Extract recovers the first JSON value from text.
func (x Extractor) Extract(text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, ErrNotFound
	}

	if v, ok := parse(trimmed); ok {
		return Result{Value: v, Strategy: StrategyDirect, Text: trimmed}, nil
	}

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		inner := strings.TrimSpace(m[1])
		if v, ok := parse(inner); ok {
			return Result{Value: v, Strategy: StrategyFenced, Text: inner}, nil
		}
	}

	if x.Balanced {
		for _, span := range objectSpans(text) {
			if v, ok := parse(span); ok {
				return Result{Value: v, Strategy: StrategyBalanced, Text: span}, nil
			}
		}
		return Result{}, ErrNotFound
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		span := text[start : end+1]
		if v, ok := parse(span); ok {
			return Result{Value: v, Strategy: StrategyBrace, Text: span}, nil
		}
	}

	return Result{}, ErrNotFound
}

// ExtractArray finds the first list of objects in text. It is the last
// resort for section responses that return a bare array with prose around it.
func ExtractArray(text string) ([]any, error) {
	span := arrayPattern.FindString(text)
	if span == "" {
		return nil, ErrNotFound
	}
	var out []any
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func parse(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// objectSpans returns every top-level {...} span in order of appearance.
// Quotes only count inside an object so prose apostrophes and quotes
// before the JSON do not confuse the scan.
func objectSpans(text string) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if depth > 0 {
			if escaped {
				escaped = false
				continue
			}
			if inString {
				switch c {
				case '\\':
					escaped = true
				case '"':
					inString = false
				}
				continue
			}
			if c == '"' {
				inString = true
				continue
			}
		}

		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, text[start:i+1])
				start = -1
			}
		}
	}
	return spans
}
