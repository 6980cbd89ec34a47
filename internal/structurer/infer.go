package structurer

import (
	"regexp"
	"strconv"

	"github.com/shrreku/ai-studyagent/internal/plan"
)

var (
	daysPattern  = regexp.MustCompile(`(?i)\b(\d+)\s*(?:days?|study days)\b`)
	hoursPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:hours?|hour per day|hours? per day)\b`)
)

// CheckConstraints rejects explicit day or hour values that are not
// positive. Absent values are fine; they are inferred later.
func CheckConstraints(days *int, hours *float64) error {
	if days != nil && *days <= 0 {
		return plan.Errorf(plan.KindValidation, "constraints", "Total study days must be positive, got %d", *days)
	}
	if hours != nil && *hours <= 0 {
		return plan.Errorf(plan.KindValidation, "constraints", "Hours per day must be positive, got %g", *hours)
	}
	return nil
}

// InferDays finds the first "<n> day(s)" mention in text.
func InferDays(text string) (int, bool) {
	m := daysPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// InferHours finds the first "<n> hour(s)" mention in text.
func InferHours(text string) (float64, bool) {
	m := hoursPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	h, err := strconv.ParseFloat(m[1], 64)
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

// resolveConstraints fills missing day and hour values from texts, first
// match wins. Explicit values are returned unchanged.
func resolveConstraints(days *int, hours *float64, texts ...string) (*int, *float64) {
	for _, t := range texts {
		if days != nil && hours != nil {
			break
		}
		if days == nil {
			if n, ok := InferDays(t); ok {
				days = &n
			}
		}
		if hours == nil {
			if h, ok := InferHours(t); ok {
				hours = &h
			}
		}
	}
	return days, hours
}
