package plan

import (
	"fmt"
	"strings"
)

// HoursMode selects how a change to hours per day affects item durations.
type HoursMode string

const (
	// HoursOverwrite replaces hour_per_day and leaves item durations untouched.
	HoursOverwrite HoursMode = "overwrite"
	// HoursRedistribute rescales item durations so each day adds up to hour_per_day.
	HoursRedistribute HoursMode = "redistribute"
)

// ParseHoursMode parses a mode name; the empty string selects HoursOverwrite.
func ParseHoursMode(s string) (HoursMode, error) {
	switch HoursMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HoursOverwrite:
		return HoursOverwrite, nil
	case HoursRedistribute:
		return HoursRedistribute, nil
	default:
		return "", fmt.Errorf("unknown hours mode %q (want overwrite or redistribute)", s)
	}
}
