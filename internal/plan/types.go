// Package plan defines the canonical study plan model, the candidate form the
// structuring pipeline passes between stages, and the shared error taxonomy.
//
// JSON tags follow the field names the model is prompted to emit
// (overall_goal, total_study_day, daily_schedule, ...). The frontend
// projection lives in frontend.go and uses camelCase names.
package plan

import (
	"bytes"
	"encoding/json"
)

// Backend field names shared by prompts, the enforcer and the validator.
const (
	FieldOverallGoal    = "overall_goal"
	FieldTotalStudyDays = "total_study_day"
	FieldHoursPerDay    = "hour_per_day"
	FieldCoreConcepts   = "core_concepts"
	FieldDailySchedule  = "daily_schedule"
	FieldGeneralTips    = "general_tip"
	FieldKeyFormulas    = "key_formulas"

	FieldDay             = "day"
	FieldDate            = "date"
	FieldFocusArea       = "focus_area"
	FieldStudyItems      = "study_item"
	FieldSummary         = "summary"
	FieldDurationMinutes = "duration_minutes"
	FieldResource        = "resource"
)

// DefaultResourceType is the frontend type for resources that carry none.
const DefaultResourceType = "text"

// CoreConcept is a concept the learner must understand.
type CoreConcept struct {
	Name            string   `json:"name"`
	Explanation     string   `json:"explanation"`
	Importance      string   `json:"importance,omitempty"`
	RelatedConcepts []string `json:"related_concepts,omitempty"`
	Examples        []string `json:"examples,omitempty"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
}

// Resource is study material attached to a study item.
type Resource struct {
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// UnmarshalJSON accepts either a resource object or a bare string title.
func (r *Resource) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var title string
		if err := json.Unmarshal(trimmed, &title); err != nil {
			return err
		}
		*r = Resource{Title: title}
		return nil
	}

	type rawResource Resource
	var raw rawResource
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*r = Resource(raw)
	return nil
}

// StudyItem is one activity within a study day.
type StudyItem struct {
	Topic              string     `json:"topic"`
	Description        string     `json:"description"`
	DurationMinutes    int        `json:"duration_minutes"`
	Resources          []Resource `json:"resource,omitempty"`
	IsCompleted        bool       `json:"is_completed"`
	LearningObjectives []string   `json:"learning_objectives,omitempty"`
	Priority           string     `json:"priority,omitempty"`
}

// DailySchedule is the plan for a single day.
type DailySchedule struct {
	Day           int         `json:"day"`
	Date          string      `json:"date,omitempty"`
	FocusArea     string      `json:"focus_area"`
	StudyItems    []StudyItem `json:"study_item"`
	Summary       string      `json:"summary"`
	LearningGoals []string    `json:"learning_goals,omitempty"`
	ReviewTopics  []string    `json:"review_topics,omitempty"`
}

// KeyFormula is a formula worth memorising.
type KeyFormula struct {
	Name         string            `json:"name"`
	Formula      string            `json:"formula"`
	Description  string            `json:"description"`
	UsageContext string            `json:"usage_context,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
	Examples     []string          `json:"examples,omitempty"`
}

// LearningResource is a plan-level reference resource.
type LearningResource struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	Relevance   string `json:"relevance,omitempty"`
}

// Assessment is a self-check the learner can run.
type Assessment struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	TopicsCovered []string `json:"topics_covered"`
}

// Plan is the validated, canonical study plan.
type Plan struct {
	OverallGoal             string             `json:"overall_goal"`
	TotalStudyDays          int                `json:"total_study_day"`
	HoursPerDay             float64            `json:"hour_per_day"`
	CoreConcepts            []CoreConcept      `json:"core_concepts"`
	DailySchedule           []DailySchedule    `json:"daily_schedule"`
	GeneralTips             []string           `json:"general_tip"`
	KeyFormulas             []KeyFormula       `json:"key_formulas,omitempty"`
	Resources               []LearningResource `json:"resources,omitempty"`
	Assessments             []Assessment       `json:"assessments,omitempty"`
	Prerequisites           []string           `json:"prerequisites,omitempty"`
	DifficultyLevel         string             `json:"difficulty_level,omitempty"`
	EstimatedCompletionTime *float64           `json:"estimated_completion_time,omitempty"`
}

// ToCandidate converts a typed plan back into candidate form.
func (p *Plan) ToCandidate() (Candidate, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var c Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}
