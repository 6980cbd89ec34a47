// Package structurer turns a raw study plan into a validated, frontend-ready
// plan. The Assembler issues the completion calls and merges their JSON into
// one candidate; the Service runs assembly, enforcement, validation and the
// frontend projection and degrades every failure into an error payload.
package structurer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shrreku/ai-studyagent/internal/extract"
	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/plan"
	"github.com/shrreku/ai-studyagent/internal/prompts"
	"github.com/shrreku/ai-studyagent/internal/prompts/structure"
	"github.com/shrreku/ai-studyagent/internal/providers"
)

// Generation defaults.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// Assembler issues the completion calls for one plan and merges the parsed
// fragments into a candidate. The zero value of every field except Client
// has a usable default. An Assembler holds no per-request state and may be
// shared by concurrent requests.
type Assembler struct {
	Client      providers.LLMClient
	Model       string // empty uses the client default
	Mode        Mode
	Parallel    bool          // issue the chunk calls concurrently
	Workers     int           // concurrent chunk calls when Parallel, 0 = one per stage
	CallTimeout time.Duration // bound on each completion call, 0 = none
	Temperature float64
	MaxTokens   int
	Policy      Policy

	Prompts      *prompts.Resolver
	PlanTemplate string // JSON shown to the model in the system prompt
	Extractor    extract.Extractor

	Recorder *llmcall.Recorder
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

// Request is one structuring request.
type Request struct {
	RequestID   string
	RawPlanText string
	// Materials is the source text the plan was written from. It is only
	// searched for day and hour counts.
	Materials string

	Days  *int
	Hours *float64

	HoursMode plan.HoursMode

	// SimplifiedJSON is the summary produced alongside a preview.
	SimplifiedJSON map[string]any

	// Mode overrides Assembler.Mode when set.
	Mode Mode
}

// Assembly is a merged candidate and the context it was built in.
type Assembly struct {
	Candidate plan.Candidate
	Raw       string // every model response that went into the candidate
	Mode      Mode
	Days      *int     // requested or inferred
	Hours     *float64 // requested or inferred
	Shortcut  bool     // core fields came from SimplifiedJSON
}

type stage int

const (
	stageSingle stage = iota
	stageCore
	stageSchedule
	stageFormulas
	numStages
)

func (s stage) String() string {
	switch s {
	case stageCore:
		return "core"
	case stageSchedule:
		return "schedule"
	case stageFormulas:
		return "formulas"
	default:
		return "single"
	}
}

func (s stage) op() string {
	return "assemble." + s.String()
}

// stageResult is the outcome of one stage after its retry table ran.
type stageResult struct {
	value any
	raw   string
	err   error
}

// withDefaults returns a copy with unset fields filled in.
func (a *Assembler) withDefaults() *Assembler {
	cp := *a
	if cp.Mode == "" {
		cp.Mode = ModeChunked
	}
	if cp.Temperature == 0 {
		cp.Temperature = DefaultTemperature
	}
	if cp.MaxTokens == 0 {
		cp.MaxTokens = DefaultMaxTokens
	}
	if cp.Policy.isZero() {
		cp.Policy = DefaultPolicy()
	}
	if cp.Logger == nil {
		cp.Logger = slog.Default()
	}
	if cp.Prompts == nil {
		cp.Prompts = prompts.NewResolver(nil, cp.Logger)
		structure.RegisterPrompts(cp.Prompts)
	}
	if cp.PlanTemplate == "" {
		cp.PlanTemplate = prompts.DefaultPlanTemplate()
	}
	return &cp
}

// Assemble builds a candidate plan for req. Errors are *plan.Error values:
// KindConfiguration when no client or prompt is available, KindTransport
// when a completion call fails or times out, KindParse when no JSON could
// be recovered for a required stage.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Assembly, error) {
	cfg := a.withDefaults()

	if strings.TrimSpace(req.RawPlanText) == "" {
		return nil, plan.Errorf(plan.KindValidation, "assemble", "raw plan text is empty")
	}
	if cfg.Client == nil {
		return nil, plan.Wrap(plan.KindConfiguration, "assemble", providers.ErrNotConfigured)
	}

	days, hours := resolveConstraints(req.Days, req.Hours, req.RawPlanText, req.Materials)

	system, _, err := cfg.Prompts.Render(structure.SystemPromptKey, structure.SystemData{Template: cfg.PlanTemplate})
	if err != nil {
		return nil, plan.Wrap(plan.KindConfiguration, "assemble.prompt", err)
	}

	data := structure.UserData{
		RawPlan:    req.RawPlanText,
		Simplified: simplifiedText(req.SimplifiedJSON),
	}
	if days != nil {
		data.Days = *days
	}
	if hours != nil {
		data.Hours = *hours
	}

	mode := cfg.Mode
	if req.Mode != "" {
		mode = req.Mode
	}

	r := &run{cfg: cfg, requestID: req.RequestID, system: system, data: data}
	asm := &Assembly{Mode: mode, Days: days, Hours: hours}

	cfg.Logger.Debug("assembling plan",
		"request_id", req.RequestID,
		"mode", mode,
		"parallel", cfg.Parallel,
		"days", data.Days,
		"hours", data.Hours)

	switch mode {
	case ModeSingle:
		res := r.runStage(ctx, stageSingle)
		if res.err != nil {
			return nil, res.err
		}
		asm.Candidate = plan.Candidate(res.value.(map[string]any))
		asm.Raw = res.raw
	default:
		seed, ok := seedFromSimplified(req.SimplifiedJSON, days, hours)
		asm.Shortcut = ok
		cand, raw, err := r.chunked(ctx, seed)
		if err != nil {
			return nil, err
		}
		asm.Candidate = cand
		asm.Raw = raw
	}
	return asm, nil
}

// run carries the values shared by every call of one assembly.
type run struct {
	cfg       *Assembler
	requestID string
	system    string
	data      structure.UserData
}

// chunked runs the core, schedule and formulas stages and merges them. A
// non-nil seed replaces the core stage.
func (r *run) chunked(ctx context.Context, seed plan.Candidate) (plan.Candidate, string, error) {
	stages := []stage{stageCore, stageSchedule, stageFormulas}
	if seed != nil {
		stages = stages[1:]
	}

	var results [numStages]stageResult
	if r.cfg.Parallel {
		// Stage failures are carried in results, never returned, so one
		// stage cannot cancel its siblings.
		limit := len(stages)
		if r.cfg.Workers > 0 && r.cfg.Workers < limit {
			limit = r.cfg.Workers
		}
		var g errgroup.Group
		g.SetLimit(limit)
		for _, st := range stages {
			g.Go(func() error {
				results[st] = r.runStage(ctx, st)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, st := range stages {
			results[st] = r.runStage(ctx, st)
			if err := results[st].err; fatal(err) || (st == stageCore && err != nil) {
				return nil, "", err
			}
		}
	}

	for _, st := range stages {
		if fatal(results[st].err) {
			return nil, "", results[st].err
		}
	}

	var cand plan.Candidate
	if seed != nil {
		cand = seed
	} else {
		if err := results[stageCore].err; err != nil {
			return nil, "", err
		}
		cand = plan.Candidate(results[stageCore].value.(map[string]any)).Clone()
	}

	cand[plan.FieldDailySchedule] = mergeList(results[stageSchedule], cand, plan.FieldDailySchedule)
	cand[plan.FieldKeyFormulas] = mergeList(results[stageFormulas], cand, plan.FieldKeyFormulas)

	for _, st := range []stage{stageSchedule, stageFormulas} {
		if err := results[st].err; err != nil {
			r.cfg.Logger.Warn("chunk stage failed, using empty list",
				"request_id", r.requestID, "stage", st.String(), "error", err)
		}
	}

	raw := fmt.Sprintf("CORE:\n%s\n\nSCHEDULE:\n%s\n\nFORMULAS:\n%s",
		results[stageCore].raw, results[stageSchedule].raw, results[stageFormulas].raw)
	return cand, raw, nil
}

// mergeList picks a list field: the stage's own result when it produced
// one, else whatever the core object already carried, else empty.
func mergeList(res stageResult, cand plan.Candidate, key string) []any {
	if list, ok := res.value.([]any); ok && res.err == nil && len(list) > 0 {
		return list
	}
	if existing := cand.List(key); len(existing) > 0 {
		return existing
	}
	return []any{}
}

// fatal reports whether err must abort the assembly rather than degrade
// one stage.
func fatal(err error) bool {
	return plan.IsKind(err, plan.KindTransport) || plan.IsKind(err, plan.KindConfiguration)
}

// runStage walks the stage's retry table until a response parses.
func (r *run) runStage(ctx context.Context, st stage) stageResult {
	table := r.cfg.Policy.attempts(st)
	if len(table) == 0 {
		return stageResult{err: plan.Errorf(plan.KindConfiguration, st.op(), "no attempts configured")}
	}

	var res stageResult
	for i, attempt := range table {
		text, err := r.call(ctx, st, i, attempt.Variant)
		if errors.Is(err, providers.ErrEmptyCompletion) {
			res.err = &plan.Error{Kind: plan.KindParse, Op: st.op(), Message: "parsing failed", Err: err}
			continue
		}
		if err != nil {
			res.err = err
			return res
		}
		res.raw = text
		if v, ok := r.parse(st, text); ok {
			return stageResult{value: v, raw: text}
		}
		res.err = &plan.Error{
			Kind:    plan.KindParse,
			Op:      st.op(),
			Message: "parsing failed",
			Raw:     text,
			Err:     extract.ErrNotFound,
		}
		if i+1 < len(table) {
			r.cfg.Logger.Warn("unparseable response, retrying",
				"request_id", r.requestID,
				"stage", st.String(),
				"attempt", i+1,
				"next_variant", table[i+1].Variant)
		}
	}
	return res
}

// call renders the prompt for variant and issues one completion.
func (r *run) call(ctx context.Context, st stage, attempt int, variant Variant) (string, error) {
	key := variant.PromptKey()
	user, resolved, err := r.cfg.Prompts.Render(key, r.data)
	if err != nil {
		return "", plan.Wrap(plan.KindConfiguration, st.op(), err)
	}

	callCtx := ctx
	if r.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()
	}

	temperature := r.cfg.Temperature
	text, result, err := providers.Complete(callCtx, r.cfg.Client, &providers.ChatRequest{
		Messages:    providers.SystemUser(r.system, user),
		Model:       r.cfg.Model,
		Temperature: temperature,
		MaxTokens:   r.cfg.MaxTokens,
	})

	r.cfg.Recorder.Record(result, llmcall.RecordOptions{
		RequestID:   r.requestID,
		Attempt:     attempt + 1,
		PromptKey:   key,
		PromptHash:  resolved.Hash,
		Temperature: &temperature,
		Err:         err,
		Logger:      r.cfg.Logger,
	})
	r.cfg.Metrics.RecordLLMCall(key, result, err)

	if err != nil {
		switch {
		case errors.Is(err, providers.ErrEmptyCompletion):
			return "", err
		case errors.Is(err, providers.ErrNotConfigured):
			return "", plan.Wrap(plan.KindConfiguration, st.op(), err)
		case ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return "", &plan.Error{Kind: plan.KindTransport, Op: st.op(), Message: "completion timed out", Err: err}
		default:
			return "", plan.Wrap(plan.KindTransport, st.op(), err)
		}
	}

	r.cfg.Logger.Debug("completion received",
		"request_id", r.requestID,
		"stage", st.String(),
		"attempt", attempt+1,
		"prompt_key", key,
		"chars", len(text))
	return text, nil
}

// parse recovers the value a stage expects from text.
func (r *run) parse(st stage, text string) (any, bool) {
	res, err := r.cfg.Extractor.Extract(text)
	if err == nil {
		r.cfg.Metrics.RecordExtraction(string(res.Strategy))
	}

	switch st {
	case stageSchedule, stageFormulas:
		key := plan.FieldDailySchedule
		if st == stageFormulas {
			key = plan.FieldKeyFormulas
		}
		if err == nil {
			if list, ok := res.Array(); ok {
				return list, true
			}
			if obj, ok := res.Object(); ok {
				if list, ok := listField(obj, key); ok {
					return list, true
				}
			}
		}
		if list, aerr := extract.ExtractArray(text); aerr == nil {
			r.cfg.Metrics.RecordExtraction(string(extract.StrategyArray))
			return list, true
		}
	default:
		if err == nil {
			if obj, ok := res.Object(); ok {
				return obj, true
			}
		}
	}
	if err != nil {
		r.cfg.Metrics.RecordExtraction("not_found")
	}
	return nil, false
}

// listField reads key from obj, also accepting its camelCase spelling.
func listField(obj map[string]any, key string) ([]any, bool) {
	for _, k := range []string{key, camel(key)} {
		if list, ok := obj[k].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func camel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// simplifiedText renders the preview summary for the prompt.
func simplifiedText(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

// seedFromSimplified builds the core fields from a preview summary. It
// reports false unless the summary carries a goal or concepts.
func seedFromSimplified(m map[string]any, days *int, hours *float64) (plan.Candidate, bool) {
	if len(m) == 0 {
		return nil, false
	}
	simple := plan.Candidate(m).Clone()
	goal := simple.String(plan.FieldOverallGoal)
	concepts := simple.List(plan.FieldCoreConcepts)
	if goal == "" && len(concepts) == 0 {
		return nil, false
	}

	seed := plan.Candidate{
		plan.FieldOverallGoal:  goal,
		plan.FieldCoreConcepts: coreConcepts(concepts),
		plan.FieldGeneralTips:  stringList(simple.List("study_tips")),
	}
	switch {
	case days != nil:
		seed[plan.FieldTotalStudyDays] = *days
	case len(simple.List("daily_focus")) > 0:
		seed[plan.FieldTotalStudyDays] = len(simple.List("daily_focus"))
	}
	if hours != nil {
		seed[plan.FieldHoursPerDay] = *hours
	}
	if formulas := keyFormulas(simple.List(plan.FieldKeyFormulas)); len(formulas) > 0 {
		seed[plan.FieldKeyFormulas] = formulas
	}
	return seed, true
}

func coreConcepts(in []any) []any {
	out := make([]any, 0, len(in))
	for _, c := range in {
		switch v := c.(type) {
		case map[string]any:
			concept := plan.Candidate(v)
			if concept.String("name") == "" {
				continue
			}
			entry := map[string]any{
				"name":        concept.String("name"),
				"explanation": concept.String("explanation"),
			}
			if s := concept.String("importance"); s != "" {
				entry["importance"] = s
			}
			if l := stringList(concept.List("related_concepts")); len(l) > 0 {
				entry["related_concepts"] = l
			}
			if l := stringList(concept.List("examples")); len(l) > 0 {
				entry["examples"] = l
			}
			out = append(out, entry)
		case string:
			if v != "" {
				out = append(out, map[string]any{"name": v, "explanation": ""})
			}
		}
	}
	return out
}

func keyFormulas(in []any) []any {
	out := make([]any, 0, len(in))
	for _, f := range in {
		v, ok := f.(map[string]any)
		if !ok {
			continue
		}
		formula := plan.Candidate(v)
		if formula.String("name") == "" && formula.String("formula") == "" {
			continue
		}
		usage := formula.String("usage_context")
		if usage == "" {
			usage = formula.String("application")
		}
		out = append(out, map[string]any{
			"name":          formula.String("name"),
			"formula":       formula.String("formula"),
			"description":   formula.String("description"),
			"usage_context": usage,
		})
	}
	return out
}

func stringList(in []any) []any {
	out := make([]any, 0, len(in))
	for _, v := range in {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
