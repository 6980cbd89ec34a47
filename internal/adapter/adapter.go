// Package adapter projects validated plans into the frontend shape.
package adapter

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shrreku/ai-studyagent/internal/plan"
)

// Defaults applied to fields the plan leaves empty.
const (
	DefaultOverallGoal     = "Study effectively"
	DefaultTotalStudyDays  = 1
	DefaultHoursPerDay     = 2.0
	DefaultFocusArea       = "Day Study"
	DefaultTopic           = "Study topic"
	DefaultDurationMinutes = 60
	DefaultPriority        = "medium"

	summaryTopic    = "Summary"
	summaryMinutes  = 10
	summaryPriority = "high"
)

// Options tune the projection.
type Options struct {
	// HoursMode selects how estimatedTimeHours is derived. HoursOverwrite
	// uses each item's own minutes; HoursRedistribute splits hoursPerDay
	// evenly across a day's items.
	HoursMode plan.HoursMode
}

// ToFrontend converts p. It never fails; a nil plan yields an error plan.
func ToFrontend(p *plan.Plan, opts Options) *plan.FrontendPlan {
	if p == nil {
		return ErrorPlan("", errors.New("no study plan to transform"))
	}

	fp := &plan.FrontendPlan{
		OverallGoal:    orDefault(p.OverallGoal, DefaultOverallGoal),
		TotalStudyDays: p.TotalStudyDays,
		HoursPerDay:    p.HoursPerDay,
		KeyConcepts:    make([]plan.FrontendConcept, 0, len(p.CoreConcepts)),
		DailyBreakdown: make([]plan.FrontendDay, 0, len(p.DailySchedule)),
		GeneralTips:    p.GeneralTips,
	}
	if fp.TotalStudyDays <= 0 {
		fp.TotalStudyDays = DefaultTotalStudyDays
	}
	if fp.HoursPerDay <= 0 {
		fp.HoursPerDay = DefaultHoursPerDay
	}
	if fp.GeneralTips == nil {
		fp.GeneralTips = []string{}
	}

	for _, c := range p.CoreConcepts {
		fp.KeyConcepts = append(fp.KeyConcepts, plan.FrontendConcept{
			Concept:     c.Name,
			Explanation: c.Explanation,
		})
	}

	for _, d := range p.DailySchedule {
		fp.DailyBreakdown = append(fp.DailyBreakdown, day(d, fp.HoursPerDay, opts.HoursMode))
	}

	for _, f := range p.KeyFormulas {
		fp.KeyFormulas = append(fp.KeyFormulas, plan.FrontendFormula{
			FormulaName:  f.Name,
			Formula:      f.Formula,
			Description:  f.Description,
			UsageContext: f.UsageContext,
			Variables:    f.Variables,
			Examples:     f.Examples,
		})
	}

	return fp
}

func day(d plan.DailySchedule, hoursPerDay float64, mode plan.HoursMode) plan.FrontendDay {
	n := d.Day
	if n <= 0 {
		n = 1
	}
	fd := plan.FrontendDay{
		Day:           n,
		DaySummary:    d.Summary,
		FocusArea:     orDefault(d.FocusArea, DefaultFocusArea),
		LearningGoals: d.LearningGoals,
		ReviewTopics:  d.ReviewTopics,
		Items:         make([]plan.FrontendItem, 0, len(d.StudyItems)+1),
	}
	if len(d.StudyItems) == 0 {
		return fd
	}

	share := 0.0
	if mode == plan.HoursRedistribute {
		share = hoursPerDay / float64(len(d.StudyItems))
	}

	for _, it := range d.StudyItems {
		minutes := it.DurationMinutes
		if minutes <= 0 {
			minutes = DefaultDurationMinutes
		}
		hours := float64(minutes) / 60
		if mode == plan.HoursRedistribute {
			hours = share
		}
		fd.Items = append(fd.Items, plan.FrontendItem{
			Topic:              orDefault(it.Topic, DefaultTopic),
			Details:            it.Description,
			DurationMinutes:    minutes,
			EstimatedTimeHours: hours,
			Resources:          resources(it.Resources),
			IsCompleted:        it.IsCompleted,
			LearningObjectives: it.LearningObjectives,
			Priority:           orDefault(it.Priority, DefaultPriority),
		})
	}

	if d.Summary != "" {
		fd.Items = append(fd.Items, plan.FrontendItem{
			Topic:              summaryTopic,
			Details:            d.Summary,
			DurationMinutes:    summaryMinutes,
			EstimatedTimeHours: float64(summaryMinutes) / 60,
			Resources:          []plan.FrontendResource{},
			LearningObjectives: d.LearningGoals,
			Priority:           summaryPriority,
		})
	}
	return fd
}

func resources(rs []plan.Resource) []plan.FrontendResource {
	out := make([]plan.FrontendResource, 0, len(rs))
	for _, r := range rs {
		fr := plan.FrontendResource{
			Title:       r.Title,
			Type:        orDefault(r.Type, plan.DefaultResourceType),
			Description: r.Description,
		}
		if r.URL != "" {
			url := r.URL
			fr.URL = &url
		}
		out = append(out, fr)
	}
	return out
}

// FromMap converts an untyped backend plan. Exactly one result is non-nil:
// input carrying an "error" key passes through as an error payload, and
// anything that cannot be decoded becomes an error plan.
func FromMap(m map[string]any, opts Options) (*plan.FrontendPlan, *plan.ErrorPayload) {
	if m == nil {
		return ErrorPlan("", errors.New("empty study plan")), nil
	}
	if msg, ok := m["error"]; ok {
		details := "Unknown error"
		if d, ok := m["details"].(string); ok && d != "" {
			details = d
		}
		return nil, &plan.ErrorPayload{Error: fmt.Sprint(msg), Details: details}
	}

	goal, _ := m[plan.FieldOverallGoal].(string)
	data, err := json.Marshal(m)
	if err != nil {
		return ErrorPlan(goal, err), nil
	}
	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return ErrorPlan(goal, err), nil
	}
	return ToFrontend(&p, opts), nil
}

// ErrorPlan is the minimal one-day plan returned when conversion fails.
func ErrorPlan(goal string, err error) *plan.FrontendPlan {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &plan.FrontendPlan{
		OverallGoal:    orDefault(goal, DefaultOverallGoal),
		TotalStudyDays: DefaultTotalStudyDays,
		HoursPerDay:    DefaultHoursPerDay,
		KeyConcepts:    []plan.FrontendConcept{},
		DailyBreakdown: []plan.FrontendDay{{
			Day:        1,
			DaySummary: "Error occurred while processing the study plan",
			Items: []plan.FrontendItem{{
				Topic:              "Please regenerate your study plan",
				Details:            "An error occurred: " + msg,
				EstimatedTimeHours: 1.0,
				Resources:          []plan.FrontendResource{},
			}},
		}},
		GeneralTips: []string{"Try regenerating your study plan"},
		Error:       msg,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

//go:embed sample_frontend_plan.json
var samplePlanJSON []byte

// SamplePlan returns a complete frontend plan for exercising the UI.
func SamplePlan() (*plan.FrontendPlan, error) {
	var fp plan.FrontendPlan
	if err := json.Unmarshal(samplePlanJSON, &fp); err != nil {
		return nil, fmt.Errorf("decode sample plan: %w", err)
	}
	return &fp, nil
}
