package structurer

import (
	"fmt"
	"strings"

	"github.com/shrreku/ai-studyagent/internal/prompts/structure"
)

// Mode selects the assembly strategy.
type Mode string

const (
	// ModeChunked issues separate core, schedule and formulas calls.
	ModeChunked Mode = "chunked"
	// ModeSingle asks for the whole plan in one call.
	ModeSingle Mode = "single"
)

// ParseMode parses a mode name; the empty string selects ModeChunked.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeChunked:
		return ModeChunked, nil
	case ModeSingle, "single-shot":
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("unknown structuring mode %q (want chunked or single)", s)
	}
}

// Variant is a prompt variant used for one attempt.
type Variant string

const (
	VariantStandard   Variant = "standard"
	VariantCore       Variant = "core"
	VariantSchedule   Variant = "schedule"
	VariantFormulas   Variant = "formulas"
	VariantStrictJSON Variant = "strict-json"
)

// PromptKey returns the prompt rendered for the variant.
func (v Variant) PromptKey() string {
	switch v {
	case VariantCore:
		return structure.CorePromptKey
	case VariantSchedule:
		return structure.SchedulePromptKey
	case VariantFormulas:
		return structure.FormulasPromptKey
	case VariantStrictJSON:
		return structure.RetryPromptKey
	default:
		return structure.SinglePromptKey
	}
}

// Attempt is one row of a retry table. The row index is the attempt number.
type Attempt struct {
	Variant Variant
}

// Policy declares the attempts each stage may make.
type Policy struct {
	Single   []Attempt
	Core     []Attempt
	Schedule []Attempt
	Formulas []Attempt

	// MaxAttempts caps every table. Zero means no cap beyond the table length.
	MaxAttempts int
}

// DefaultPolicy retries the full-plan calls once with the strict JSON prompt
// and gives the schedule and formulas stages a single attempt each.
func DefaultPolicy() Policy {
	return Policy{
		Single:      []Attempt{{VariantStandard}, {VariantStrictJSON}},
		Core:        []Attempt{{VariantCore}, {VariantStrictJSON}},
		Schedule:    []Attempt{{VariantSchedule}},
		Formulas:    []Attempt{{VariantFormulas}},
		MaxAttempts: 2,
	}
}

// attempts returns the table for a stage with the cap applied.
func (p Policy) attempts(stage stage) []Attempt {
	var table []Attempt
	switch stage {
	case stageSingle:
		table = p.Single
	case stageCore:
		table = p.Core
	case stageSchedule:
		table = p.Schedule
	case stageFormulas:
		table = p.Formulas
	}
	if p.MaxAttempts > 0 && len(table) > p.MaxAttempts {
		table = table[:p.MaxAttempts]
	}
	return table
}

func (p Policy) isZero() bool {
	return p.Single == nil && p.Core == nil && p.Schedule == nil && p.Formulas == nil
}
