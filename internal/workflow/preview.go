package workflow

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shrreku/ai-studyagent/internal/extract"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts/preview"
)

// Preview statuses.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
	StatusError          = "error"
)

// DefaultPreviewGoal is used when the summary names no goal.
const DefaultPreviewGoal = "Master the subject material"

var (
	trailingJSONFence = regexp.MustCompile("```json\\s*\\{[\\s\\S]*?\\}\\s*```\\s*$")
	jsonFence         = regexp.MustCompile("(?i)```json\\s*([\\s\\S]*?)\\s*```")
)

// PreviewRequest asks for a human-readable preview of a plan.
type PreviewRequest struct {
	Notes     string
	Questions string
	Days      int
	Hours     float64
}

// PreviewPlan is what the preview page renders.
type PreviewPlan struct {
	Overview     string  `json:"overview"`
	OverallGoal  string  `json:"overall_goal,omitempty"`
	CoreConcepts []any   `json:"core_concepts,omitempty"`
	DailyFocus   []any   `json:"daily_focus,omitempty"`
	KeyFormulas  []any   `json:"key_formulas,omitempty"`
	StudyDays    int     `json:"study_days"`
	HoursPerDay  float64 `json:"hours_per_day"`
}

// Preview is the outcome of a preview run. RawPlan and SimplifiedJSON are
// meant to be passed back to the structurer.
type Preview struct {
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
	Details        string         `json:"details,omitempty"`
	PreviewPlan    *PreviewPlan   `json:"preview_plan,omitempty"`
	RawPlan        string         `json:"raw_plan,omitempty"`
	SimplifiedJSON map[string]any `json:"simplified_json,omitempty"`
}

// Preview asks the model for an overview plus a simplified JSON summary.
// The error is non-nil only for invalid input.
func (w *Workflow) Preview(ctx context.Context, req PreviewRequest) (*Preview, error) {
	if err := checkDuration(req.Days, req.Hours); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Notes) == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("no study material text provided"))
	}

	client, err := w.client()
	if err != nil {
		return &Preview{Status: StatusError, Error: plan.TagNotConfigured, Details: err.Error()}, nil
	}

	requestID := newRequestID()
	output, err := w.complete(ctx, client, requestID, preview.PromptKey, preview.Data{
		Materials: previewMaterials(req.Notes, req.Questions),
		Days:      req.Days,
		Hours:     req.Hours,
	})
	if err != nil {
		w.logger.Warn("preview generation failed", "request_id", requestID, "error", err)
		return &Preview{Status: StatusError, Error: "Failed to generate preview plan", Details: err.Error()}, nil
	}

	return parsePreview(output, req.Days, req.Hours), nil
}

// parsePreview splits the model output into overview text and the
// simplified JSON summary.
func parsePreview(output string, days int, hours float64) *Preview {
	simplified, err := simplifiedJSON(output)
	if err != nil {
		overview := output
		if i := strings.Index(overview, "```json"); i > 0 {
			overview = strings.TrimSpace(overview[:i])
		}
		return &Preview{
			Status:  StatusPartialSuccess,
			Error:   "Failed to parse JSON data",
			Details: err.Error(),
			PreviewPlan: &PreviewPlan{
				Overview:    overview,
				StudyDays:   days,
				HoursPerDay: hours,
			},
			RawPlan: output,
		}
	}

	summary := plan.Candidate(simplified)
	goal := summary.String(plan.FieldOverallGoal)
	if goal == "" {
		goal = DefaultPreviewGoal
	}
	return &Preview{
		Status: StatusSuccess,
		PreviewPlan: &PreviewPlan{
			Overview:     strings.TrimSpace(trailingJSONFence.ReplaceAllString(output, "")),
			OverallGoal:  goal,
			CoreConcepts: orEmpty(summary.List(plan.FieldCoreConcepts)),
			DailyFocus:   orEmpty(summary.List("daily_focus")),
			KeyFormulas:  orEmpty(summary.List(plan.FieldKeyFormulas)),
			StudyDays:    days,
			HoursPerDay:  hours,
		},
		RawPlan:        output,
		SimplifiedJSON: simplified,
	}
}

// simplifiedJSON returns the object in the last json fence, or failing
// that whatever object the extraction cascade finds.
func simplifiedJSON(output string) (map[string]any, error) {
	if fences := jsonFence.FindAllStringSubmatch(output, -1); len(fences) > 0 {
		if res, err := extract.Extract(fences[len(fences)-1][1]); err == nil {
			if obj, ok := res.Object(); ok {
				return obj, nil
			}
		}
	}
	res, err := extract.Extract(output)
	if err != nil {
		return nil, err
	}
	obj, ok := res.Object()
	if !ok {
		return nil, fmt.Errorf("simplified summary is a %T, not an object", res.Value)
	}
	return obj, nil
}

func previewMaterials(notes, questions string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Study Materials (Notes):\n```\n%s\n```\n", notes)
	if strings.TrimSpace(questions) != "" {
		fmt.Fprintf(&sb, "\nStudy Questions:\n```\n%s\n```\n", questions)
	}
	return sb.String()
}

func orEmpty(l []any) []any {
	if l == nil {
		return []any{}
	}
	return l
}
