package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shrreku/ai-studyagent/internal/adapter"
	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/structurer"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
	"github.com/shrreku/ai-studyagent/internal/validate"
	"github.com/shrreku/ai-studyagent/internal/workflow"
)

// StructureRequest is the body for POST /api/plans/structure.
type StructureRequest struct {
	RawPlanText               string         `json:"rawPlanText"`
	RequestedDays             *int           `json:"requestedDays,omitempty"`
	RequestedHours            *float64       `json:"requestedHours,omitempty"`
	HoursMode                 string         `json:"hoursMode,omitempty"`
	PrecomputedSimplifiedJSON map[string]any `json:"precomputedSimplifiedJson,omitempty"`
	Mode                      string         `json:"mode,omitempty"`
	Materials                 string         `json:"materials,omitempty"`
}

// StructureEndpoint handles POST /api/plans/structure.
type StructureEndpoint struct{}

func (e *StructureEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/plans/structure", e.handler
}

func (e *StructureEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Structure a raw study plan
//	@Description	Turns free-form plan text into a validated plan in the frontend shape
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StructureRequest	true	"Raw plan"
//	@Success		200		{object}	plan.Response
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	plan.Response
//	@Failure		502		{object}	plan.Response
//	@Failure		503		{object}	plan.Response
//	@Router			/api/plans/structure [post]
func (e *StructureEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.StructurerFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "structurer not initialized")
		return
	}

	var req StructureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hoursMode, err := parseHoursMode(req.HoursMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := structurer.CheckConstraints(req.RequestedDays, req.RequestedHours); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writePlanResponse(w, svc.Structure(r.Context(), structurer.Request{
		RawPlanText:    req.RawPlanText,
		Materials:      req.Materials,
		Days:           req.RequestedDays,
		Hours:          req.RequestedHours,
		HoursMode:      hoursMode,
		SimplifiedJSON: req.PrecomputedSimplifiedJSON,
		Mode:           mode,
	}))
}

func (e *StructureEndpoint) Command(getServerURL func() string) *cobra.Command {
	var days int
	var hours float64
	var mode, hoursMode string
	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Structure a raw plan file on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			req := StructureRequest{RawPlanText: string(text), Mode: mode, HoursMode: hoursMode}
			if cmd.Flags().Changed("days") {
				req.RequestedDays = &days
			}
			if cmd.Flags().Changed("hours") {
				req.RequestedHours = &hours
			}
			var resp plan.Response
			client := api.NewClient(getServerURL())
			if err := client.Post(cmd.Context(), "/api/plans/structure", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Requested number of study days")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Requested study hours per day")
	cmd.Flags().StringVar(&mode, "mode", "", "Structuring mode (chunked or single)")
	cmd.Flags().StringVar(&hoursMode, "hours-mode", "", "Hours mode (overwrite or redistribute)")
	return cmd
}

// GenerateRequest is the body for POST /api/plans/generate.
type GenerateRequest struct {
	Notes     string  `json:"notes"`
	Questions string  `json:"questions,omitempty"`
	Days      int     `json:"study_duration_days,omitempty"`
	Hours     float64 `json:"study_hours_per_day,omitempty"`
	HoursMode string  `json:"hoursMode,omitempty"`
	Mode      string  `json:"mode,omitempty"`
}

// GenerateResponse carries a drafted and structured plan.
type GenerateResponse struct {
	RequestID       string        `json:"request_id"`
	RawPlan         string        `json:"raw_plan,omitempty"`
	Fallback        bool          `json:"fallback"`
	StudyPlanResult plan.Response `json:"study_plan_result"`
}

func generateResponse(g *workflow.Generated) GenerateResponse {
	return GenerateResponse{
		RequestID:       g.RequestID,
		RawPlan:         g.RawPlan,
		Fallback:        g.Fallback,
		StudyPlanResult: g.Response,
	}
}

// GenerateEndpoint handles POST /api/plans/generate.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/plans/generate", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate a study plan
//	@Description	Drafts a plan from study materials with the language model, then structures it
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			request	body		GenerateRequest	true	"Study materials"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	GenerateResponse
//	@Router			/api/plans/generate [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		writeError(w, http.StatusServiceUnavailable, "workflow not initialized")
		return
	}

	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Days == 0 {
		req.Days = workflow.DefaultStudyDays
	}
	if req.Hours == 0 {
		req.Hours = workflow.DefaultStudyHours
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hoursMode, err := parseHoursMode(req.HoursMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := wf.GeneratePlan(r.Context(), workflow.GenerateRequest{
		Notes:     req.Notes,
		Questions: req.Questions,
		Days:      req.Days,
		Hours:     req.Hours,
		HoursMode: hoursMode,
		Mode:      mode,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	status := http.StatusOK
	if g.Response.Failed() {
		status = statusFor(g.Response.Failure.Kind)
	}
	writeJSON(w, status, generateResponse(g))
}

// writeGenerateError maps input errors to 400 and anything else to 500.
func writeGenerateError(w http.ResponseWriter, err error) {
	if errors.Is(err, workflow.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var days int
	var hours float64
	var questions string
	cmd := &cobra.Command{
		Use:   "generate <notes-file>",
		Short: "Generate a study plan from a notes text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			req := GenerateRequest{Notes: string(notes), Days: days, Hours: hours}
			if questions != "" {
				q, err := os.ReadFile(questions)
				if err != nil {
					return err
				}
				req.Questions = string(q)
			}
			var resp GenerateResponse
			client := api.NewClient(getServerURL())
			if err := client.Post(cmd.Context(), "/api/plans/generate", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&days, "days", workflow.DefaultStudyDays, "Study duration in days")
	cmd.Flags().Float64Var(&hours, "hours", workflow.DefaultStudyHours, "Study hours per day")
	cmd.Flags().StringVar(&questions, "questions", "", "Text file of practice questions")
	return cmd
}

// PreviewRequest is the body for POST /api/plans/preview.
type PreviewRequest struct {
	Notes     string  `json:"notes"`
	Questions string  `json:"questions,omitempty"`
	Days      int     `json:"study_duration_days,omitempty"`
	Hours     float64 `json:"study_hours_per_day,omitempty"`
}

// PreviewEndpoint handles POST /api/plans/preview.
type PreviewEndpoint struct{}

func (e *PreviewEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/plans/preview", e.handler
}

func (e *PreviewEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Preview a study plan
//	@Description	Returns an overview and a simplified summary that can be passed back to structure
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PreviewRequest	true	"Study materials"
//	@Success		200		{object}	workflow.Preview
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	workflow.Preview
//	@Router			/api/plans/preview [post]
func (e *PreviewEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		writeError(w, http.StatusServiceUnavailable, "workflow not initialized")
		return
	}

	var req PreviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Days == 0 {
		req.Days = workflow.DefaultStudyDays
	}
	if req.Hours == 0 {
		req.Hours = workflow.DefaultStudyHours
	}

	p, err := wf.Preview(r.Context(), workflow.PreviewRequest{
		Notes:     req.Notes,
		Questions: req.Questions,
		Days:      req.Days,
		Hours:     req.Hours,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}

	status := http.StatusOK
	if p.Status == workflow.StatusError {
		status = http.StatusBadGateway
		if p.Error == plan.TagNotConfigured {
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, p)
}

func (e *PreviewEndpoint) Command(getServerURL func() string) *cobra.Command {
	var days int
	var hours float64
	cmd := &cobra.Command{
		Use:   "preview <notes-file>",
		Short: "Preview a study plan for a notes text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var resp workflow.Preview
			client := api.NewClient(getServerURL())
			req := PreviewRequest{Notes: string(notes), Days: days, Hours: hours}
			if err := client.Post(cmd.Context(), "/api/plans/preview", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&days, "days", workflow.DefaultStudyDays, "Study duration in days")
	cmd.Flags().Float64Var(&hours, "hours", workflow.DefaultStudyHours, "Study hours per day")
	return cmd
}

// FallbackRequest is the body for POST /api/plans/fallback.
type FallbackRequest struct {
	Text      string  `json:"text"`
	Days      int     `json:"days,omitempty"`
	Hours     float64 `json:"hours,omitempty"`
	HoursMode string  `json:"hoursMode,omitempty"`
}

// FallbackEndpoint handles POST /api/plans/fallback.
type FallbackEndpoint struct{}

func (e *FallbackEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/plans/fallback", e.handler
}

func (e *FallbackEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Structure text without a language model
//	@Description	Builds a plan from day headings and bullet points in the text
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			request	body		FallbackRequest	true	"Plan text"
//	@Success		200		{object}	plan.Response
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	plan.Response
//	@Router			/api/plans/fallback [post]
func (e *FallbackEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	wf := svcctx.WorkflowFrom(r.Context())
	if wf == nil {
		writeError(w, http.StatusServiceUnavailable, "workflow not initialized")
		return
	}

	var req FallbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Days < 0 || req.Hours < 0 {
		writeError(w, http.StatusBadRequest, "days and hours must not be negative")
		return
	}
	if req.Days == 0 {
		req.Days = workflow.DefaultStudyDays
	}
	if req.Hours == 0 {
		req.Hours = workflow.DefaultStudyHours
	}
	hoursMode, err := parseHoursMode(req.HoursMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writePlanResponse(w, wf.Fallback(req.Text, req.Days, req.Hours, hoursMode))
}

func (e *FallbackEndpoint) Command(getServerURL func() string) *cobra.Command {
	var days int
	var hours float64
	cmd := &cobra.Command{
		Use:   "fallback <file>",
		Short: "Structure a text file without calling a language model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var resp plan.Response
			client := api.NewClient(getServerURL())
			req := FallbackRequest{Text: string(text), Days: days, Hours: hours}
			if err := client.Post(cmd.Context(), "/api/plans/fallback", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&days, "days", workflow.DefaultStudyDays, "Study duration in days")
	cmd.Flags().Float64Var(&hours, "hours", workflow.DefaultStudyHours, "Study hours per day")
	return cmd
}

// AdaptEndpoint handles POST /api/plans/adapt.
type AdaptEndpoint struct{}

func (e *AdaptEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/plans/adapt", e.handler
}

func (e *AdaptEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Adapt a backend plan
//	@Description	Projects a backend study plan into the frontend shape without validating it
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			hoursMode	query		string			false	"overwrite or redistribute"
//	@Param			request		body		map[string]any	true	"Backend plan"
//	@Success		200			{object}	plan.FrontendPlan
//	@Failure		400			{object}	ErrorResponse
//	@Failure		422			{object}	plan.ErrorPayload
//	@Router			/api/plans/adapt [post]
func (e *AdaptEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	hoursMode, err := parseHoursMode(r.URL.Query().Get("hoursMode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body map[string]any
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fp, failure := adapter.FromMap(body, adapter.Options{HoursMode: hoursMode})
	if failure != nil {
		writeJSON(w, http.StatusUnprocessableEntity, failure)
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

func (e *AdaptEndpoint) Command(getServerURL func() string) *cobra.Command {
	return nil
}

// SampleEndpoint handles GET /api/plans/sample.
type SampleEndpoint struct{}

func (e *SampleEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/plans/sample", e.handler
}

func (e *SampleEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Sample frontend plan
//	@Tags		plans
//	@Produce	json
//	@Success	200	{object}	plan.FrontendPlan
//	@Router		/api/plans/sample [get]
func (e *SampleEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	fp, err := adapter.SamplePlan()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load sample plan: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, fp)
}

func (e *SampleEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Show the sample frontend plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp plan.FrontendPlan
			client := api.NewClient(getServerURL())
			if err := client.Get(cmd.Context(), "/api/plans/sample", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PlanSchemaEndpoint handles GET /api/plans/schema.
type PlanSchemaEndpoint struct{}

func (e *PlanSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/plans/schema", e.handler
}

func (e *PlanSchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Structured plan schema
//	@Description	The JSON schema every structured plan is validated against
//	@Tags			plans
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/api/plans/schema [get]
func (e *PlanSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(validate.Schema())
}

func (e *PlanSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the structured plan JSON schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			body, err := client.GetRaw(cmd.Context(), "/api/plans/schema")
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(body)
			return err
		},
	}
}

// parseMode leaves an empty mode empty so the configured default applies.
func parseMode(s string) (structurer.Mode, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return structurer.ParseMode(s)
}

// parseHoursMode leaves an empty hours mode empty so the configured default
// applies.
func parseHoursMode(s string) (plan.HoursMode, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return plan.ParseHoursMode(s)
}
