package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/shrreku/ai-studyagent/internal/plan"
)

//go:embed plan_template.json
var defaultPlanTemplate []byte

// DefaultPlanTemplate returns the built-in plan template JSON.
func DefaultPlanTemplate() string {
	return string(defaultPlanTemplate)
}

// LoadPlanTemplate reads the plan template shown to the model. An empty
// path or a missing file falls back to the built-in template. A file that
// exists but is unreadable or not JSON is a configuration error.
func LoadPlanTemplate(path string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return DefaultPlanTemplate(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("plan template not found, using built-in template", "path", path)
		return DefaultPlanTemplate(), nil
	}
	if err != nil {
		return "", plan.Wrap(plan.KindConfiguration, "prompts.template", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", plan.Errorf(plan.KindConfiguration, "prompts.template", "plan template %s is not valid JSON: %v", path, err)
	}
	logger.Info("loaded plan template", "path", path)
	return buf.String(), nil
}
