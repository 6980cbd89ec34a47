package structurer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shrreku/ai-studyagent/internal/adapter"
	"github.com/shrreku/ai-studyagent/internal/enforce"
	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/validate"
)

// SuccessMessage accompanies every structured plan.
const SuccessMessage = "Study plan structured successfully"

// ClientSource yields the completion client for a request.
// *providers.Registry satisfies it.
type ClientSource interface {
	Default() (providers.LLMClient, error)
}

// Config configures a Service.
type Config struct {
	// Assembler is copied for every request. When its Client is nil the
	// client comes from Clients.
	Assembler Assembler
	Clients   ClientSource

	// Validator defaults to one built from the embedded schema.
	Validator *validate.Validator

	// HoursMode applies when a request does not name one.
	HoursMode plan.HoursMode
}

// Service structures raw plans end to end.
type Service struct {
	assembler Assembler
	clients   ClientSource
	validator *validate.Validator
	hoursMode plan.HoursMode
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(cfg Config) (*Service, error) {
	v := cfg.Validator
	if v == nil {
		var err error
		if v, err = validate.New(); err != nil {
			return nil, plan.Wrap(plan.KindConfiguration, "structurer", err)
		}
	}
	if cfg.HoursMode == "" {
		cfg.HoursMode = plan.HoursOverwrite
	}
	logger := cfg.Assembler.Logger
	if logger == nil {
		logger = slog.Default()
		cfg.Assembler.Logger = logger
	}
	return &Service{
		assembler: cfg.Assembler,
		clients:   cfg.Clients,
		validator: v,
		hoursMode: cfg.HoursMode,
		logger:    logger,
	}, nil
}

// Recorder returns the call recorder the service writes to.
func (s *Service) Recorder() *llmcall.Recorder {
	return s.assembler.Recorder
}

// Metrics returns the metrics recorder the service writes to.
func (s *Service) Metrics() *metrics.Recorder {
	return s.assembler.Metrics
}

// Configured reports whether a completion client is available.
func (s *Service) Configured() bool {
	_, err := s.client()
	return err == nil
}

func (s *Service) client() (providers.LLMClient, error) {
	if s.assembler.Client != nil {
		return s.assembler.Client, nil
	}
	if s.clients == nil {
		return nil, providers.ErrNotConfigured
	}
	return s.clients.Default()
}

// Structure runs assembly, enforcement, validation and the frontend
// projection. It never returns an error: every failure becomes the error
// payload of the response.
func (s *Service) Structure(ctx context.Context, req Request) plan.Response {
	start := time.Now()
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	mode := req.Mode
	if mode == "" {
		mode = s.assembler.Mode
	}
	if mode == "" {
		mode = ModeChunked
	}
	hoursMode := req.HoursMode
	if hoursMode == "" {
		hoursMode = s.hoursMode
	}
	logger := s.logger.With("request_id", req.RequestID, "mode", mode)

	if strings.TrimSpace(req.RawPlanText) == "" {
		err := plan.Errorf(plan.KindParse, "structure", "raw plan text is empty")
		return s.fail(req, mode, start, plan.TagStructureFailed, err)
	}

	if err := CheckConstraints(req.Days, req.Hours); err != nil {
		return s.fail(req, mode, start, plan.TagValidationFailed, err)
	}

	client, err := s.client()
	if err != nil {
		return s.fail(req, mode, start, plan.TagNotConfigured, plan.Wrap(plan.KindConfiguration, "structure", err))
	}

	asm := s.assembler
	asm.Client = client
	assembly, err := asm.Assemble(ctx, req)
	if err != nil {
		return s.fail(req, mode, start, "", err)
	}

	enforced := enforce.Enforce(assembly.Candidate, enforce.Constraints{
		Days:  assembly.Days,
		Hours: assembly.Hours,
		Mode:  hoursMode,
	})

	p, err := s.validator.Validate(enforced)
	if err != nil {
		var pe *plan.Error
		if errors.As(err, &pe) && pe.Raw == "" {
			pe.Raw = assembly.Raw
		}
		return s.fail(req, mode, start, plan.TagValidationFailed, err)
	}

	// Redistribution already happened on item minutes when hours were
	// enforced, so the projection reads durations as they are.
	projection := hoursMode
	if assembly.Hours != nil {
		projection = plan.HoursOverwrite
	}
	fp := adapter.ToFrontend(p, adapter.Options{HoursMode: projection})

	elapsed := time.Since(start)
	s.assembler.Metrics.RecordStructure(string(mode), metrics.OutcomeSuccess, elapsed.Seconds())
	s.assembler.Recorder.Snapshot(llmcall.SnapshotSuccess, req.RequestID, map[string]any{
		"mode":           mode,
		"shortcut":       assembly.Shortcut,
		"structuredPlan": fp,
		"rawResponse":    assembly.Raw,
	})
	logger.Info("study plan structured",
		"days", p.TotalStudyDays,
		"hours_per_day", p.HoursPerDay,
		"concepts", len(p.CoreConcepts),
		"duration", elapsed)

	return plan.Success(fp, SuccessMessage)
}

func (s *Service) fail(req Request, mode Mode, start time.Time, tag string, err error) plan.Response {
	resp := plan.Failure(tag, err)
	kind := resp.Failure.Kind
	if kind == "" {
		kind = plan.KindParse
	}

	s.assembler.Metrics.RecordStructure(string(mode), string(kind), time.Since(start).Seconds())
	s.assembler.Recorder.Snapshot(llmcall.SnapshotFailure, req.RequestID, map[string]any{
		"mode":    mode,
		"request": req.RawPlanText,
		"error":   resp.Failure,
	})
	s.logger.Warn("study plan structuring failed",
		"request_id", req.RequestID,
		"mode", mode,
		"kind", kind,
		"error", err)
	return resp
}
