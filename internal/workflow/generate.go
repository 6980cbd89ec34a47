package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shrreku/ai-studyagent/internal/adapter"
	"github.com/shrreku/ai-studyagent/internal/fallback"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts/generate"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/structurer"
)

// FallbackMessage accompanies plans built without a language model.
const FallbackMessage = "No language model is configured; the study plan was structured from the materials directly"

// GenerateRequest asks for a plan drafted from uploaded materials.
type GenerateRequest struct {
	Notes     string
	Questions string
	Days      int
	Hours     float64
	HoursMode plan.HoursMode
	Mode      structurer.Mode
}

// Generated is the outcome of GeneratePlan.
type Generated struct {
	RequestID string
	RawPlan   string // the drafted markdown plan, empty on the fallback path
	Fallback  bool
	Response  plan.Response
}

// GeneratePlan drafts a raw plan with the language model and structures it.
// Without a configured model the materials are structured by the regex
// fallback instead. The error is non-nil only for invalid input; pipeline
// failures are carried in Generated.Response.
func (w *Workflow) GeneratePlan(ctx context.Context, req GenerateRequest) (*Generated, error) {
	if err := checkDuration(req.Days, req.Hours); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Notes) == "" && strings.TrimSpace(req.Questions) == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("no study material text provided"))
	}

	out := &Generated{RequestID: newRequestID()}
	logger := w.logger.With("request_id", out.RequestID)
	materials := CombineUploads(req.Notes, req.Questions)

	client, err := w.client()
	if err != nil {
		if !errors.Is(err, providers.ErrNotConfigured) {
			out.Response = plan.Failure(plan.TagNotConfigured, plan.Wrap(plan.KindConfiguration, "generate", err))
			return out, nil
		}
		logger.Info("no LLM provider configured, using fallback structurer")
		out.Fallback = true
		out.Response = w.fallback(materials, req.Days, req.Hours, req.HoursMode)
		return out, nil
	}

	start := time.Now()
	rawPlan, err := w.complete(ctx, client, out.RequestID, generate.PromptKey, generate.Data{
		Notes:     req.Notes,
		Questions: req.Questions,
		Days:      req.Days,
		Hours:     req.Hours,
	})
	if err != nil {
		logger.Warn("raw plan generation failed", "error", err)
		out.Response = plan.Failure("", err)
		return out, nil
	}
	out.RawPlan = rawPlan
	logger.Info("raw plan drafted", "chars", len(rawPlan), "duration", time.Since(start))

	if w.structurer == nil {
		out.Response = plan.Failure(plan.TagNotConfigured,
			plan.Errorf(plan.KindConfiguration, "generate", "no structurer configured"))
		return out, nil
	}

	days, hours := req.Days, req.Hours
	out.Response = w.structurer.Structure(ctx, structurer.Request{
		RequestID:   out.RequestID,
		RawPlanText: rawPlan,
		Materials:   materials,
		Days:        &days,
		Hours:       &hours,
		HoursMode:   req.HoursMode,
		Mode:        req.Mode,
	})
	return out, nil
}

// Fallback structures text with the regex structurer and projects it for
// the frontend. It never fails.
func (w *Workflow) Fallback(text string, days int, hours float64, mode plan.HoursMode) plan.Response {
	return w.fallback(text, days, hours, mode)
}

func (w *Workflow) fallback(text string, days int, hours float64, mode plan.HoursMode) plan.Response {
	start := time.Now()
	p := fallback.Structure(text, days, hours)
	fp := adapter.ToFrontend(p, adapter.Options{HoursMode: mode})
	w.metrics.RecordStructure("fallback", metrics.OutcomeFallback, time.Since(start).Seconds())
	return plan.Success(fp, FallbackMessage)
}
