// Package validate checks an enforced plan candidate against the structured
// plan schema and decodes it into a typed plan.
package validate

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/shrreku/ai-studyagent/internal/plan"
)

const op = "validate"

//go:embed schema.json
var schemaJSON []byte

// Schema returns the embedded JSON schema document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

var defaultValidator = sync.OnceValues(New)

// Validator holds the compiled plan schema. It is safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load plan schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate runs the shared validator.
func Validate(c plan.Candidate) (*plan.Plan, error) {
	v, err := defaultValidator()
	if err != nil {
		return nil, plan.Wrap(plan.KindConfiguration, op, err)
	}
	return v.Validate(c)
}

// Validate checks c and returns the typed plan. Failures are KindValidation
// errors carrying c as the parsed payload. c itself is never modified.
func (v *Validator) Validate(c plan.Candidate) (*plan.Plan, error) {
	if len(c) == 0 {
		return nil, invalid(c, "structured plan is empty", nil)
	}

	doc := c.Clone()
	CoerceResources(doc)

	if n, ok := doc.Number(plan.FieldTotalStudyDays); ok && n <= 0 {
		return nil, invalid(c, "Total study days must be positive, got "+formatNumber(n), nil)
	}
	if n, ok := doc.Number(plan.FieldHoursPerDay); ok && n <= 0 {
		return nil, invalid(c, "Hours per day must be positive, got "+formatNumber(n), nil)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, invalid(c, "structured plan is not serializable", err)
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, invalid(c, "structured plan is not serializable", err)
	}

	if err := v.schema.Validate(normalized); err != nil {
		return nil, invalid(c, "structured plan does not match schema: "+describe(err), nil)
	}

	var p plan.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, invalid(c, "structured plan could not be decoded", err)
	}
	return &p, nil
}

// CoerceResources rewrites study item resources given as bare strings into
// resource objects with only the title set. A single string resource is
// treated as a one-element list.
func CoerceResources(c plan.Candidate) {
	for _, d := range c.List(plan.FieldDailySchedule) {
		day, ok := d.(map[string]any)
		if !ok {
			continue
		}
		items, _ := day[plan.FieldStudyItems].([]any)
		for _, it := range items {
			item, ok := it.(map[string]any)
			if !ok {
				continue
			}
			switch r := item[plan.FieldResource].(type) {
			case string:
				item[plan.FieldResource] = []any{map[string]any{"title": r}}
			case []any:
				for i, entry := range r {
					if s, ok := entry.(string); ok {
						r[i] = map[string]any{"title": s}
					}
				}
			}
		}
	}
}

func invalid(c plan.Candidate, msg string, err error) error {
	var parsed any
	if c != nil {
		parsed = map[string]any(c)
	}
	return &plan.Error{
		Kind:    plan.KindValidation,
		Op:      op,
		Message: msg,
		Parsed:  parsed,
		Err:     err,
	}
}

// describe flattens a schema failure into its leaf causes.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
