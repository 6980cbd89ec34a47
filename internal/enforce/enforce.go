// Package enforce forces an assembled plan candidate to match the day count
// and hours per day the caller asked for. It never calls a model.
package enforce

import (
	"fmt"
	"math"

	"github.com/shrreku/ai-studyagent/internal/plan"
)

// Constraints are the caller-requested values. Nil fields are left alone.
type Constraints struct {
	Days  *int
	Hours *float64
	Mode  plan.HoursMode
}

// Enforce returns a copy of c rewritten to honor cons.
//
// With Days set, total_study_day is replaced, the schedule is truncated from
// the tail or padded by cloning the last day, and every entry is renumbered
// to its position. With Hours set, hour_per_day is replaced; item durations
// are only rescaled in HoursRedistribute mode.
//
// Numbers written here are float64 to match decoded JSON.
func Enforce(c plan.Candidate, cons Constraints) plan.Candidate {
	out := c.Clone()
	if out == nil {
		out = plan.Candidate{}
	}

	if cons.Days != nil && *cons.Days > 0 {
		n := *cons.Days
		out[plan.FieldTotalStudyDays] = float64(n)
		out[plan.FieldDailySchedule] = resize(out.List(plan.FieldDailySchedule), n)
	}

	if cons.Hours != nil && *cons.Hours > 0 {
		out[plan.FieldHoursPerDay] = *cons.Hours
		if cons.Mode == plan.HoursRedistribute {
			for _, d := range out.List(plan.FieldDailySchedule) {
				if day, ok := d.(map[string]any); ok {
					redistribute(day, *cons.Hours)
				}
			}
		}
	}

	return out
}

// EmptyDay is the template used when there is no day to clone.
func EmptyDay(n int) map[string]any {
	return map[string]any{
		plan.FieldDay:        float64(n),
		plan.FieldDate:       nil,
		plan.FieldFocusArea:  fmt.Sprintf("Study day %d", n),
		plan.FieldStudyItems: []any{},
		plan.FieldSummary:    fmt.Sprintf("Study activities for day %d", n),
	}
}

func resize(schedule []any, n int) []any {
	var last map[string]any
	days := make([]any, 0, n)
	for _, d := range schedule {
		if len(days) == n {
			break
		}
		day, ok := d.(map[string]any)
		if !ok {
			day = EmptyDay(len(days) + 1)
		}
		days = append(days, day)
	}
	for i := len(schedule) - 1; i >= 0; i-- {
		if day, ok := schedule[i].(map[string]any); ok {
			last = day
			break
		}
	}

	for len(days) < n {
		k := len(days) + 1
		if last == nil {
			days = append(days, EmptyDay(k))
			continue
		}
		next := plan.DeepCopy(last).(map[string]any)
		next[plan.FieldFocusArea] = fmt.Sprintf("Additional study for day %d", k)
		next[plan.FieldSummary] = fmt.Sprintf("Additional study day %d", k)
		days = append(days, next)
	}

	for i, d := range days {
		d.(map[string]any)[plan.FieldDay] = float64(i + 1)
	}
	return days
}

// redistribute rescales the day's item durations so they add up to
// hours*60 minutes. Existing durations are kept as weights when they are
// all positive; otherwise minutes are split evenly. The last item takes the
// rounding remainder and no item drops below one minute.
func redistribute(day map[string]any, hours float64) {
	raw, _ := day[plan.FieldStudyItems].([]any)
	var items []map[string]any
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			items = append(items, m)
		}
	}
	if len(items) == 0 {
		return
	}

	total := int(math.Round(hours * 60))
	weights := make([]float64, len(items))
	sum := 0.0
	for i, it := range items {
		w, ok := plan.AsNumber(it[plan.FieldDurationMinutes])
		if !ok || w <= 0 {
			sum = 0
			break
		}
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(len(weights))
	}

	assigned := 0
	for i, it := range items {
		var minutes int
		if i == len(items)-1 {
			minutes = total - assigned
		} else {
			minutes = int(math.Floor(float64(total) * weights[i] / sum))
		}
		minutes = max(minutes, 1)
		assigned += minutes
		it[plan.FieldDurationMinutes] = float64(minutes)
	}
}
