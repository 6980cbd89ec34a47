package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how CLI commands print results.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatText prints values that implement TextRenderer as plain
	// text and everything else as YAML.
	OutputFormatText OutputFormat = "text"
)

// TextRenderer is implemented by values with a human-readable form.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

var outputFormat = OutputFormatYAML

// SetOutputFormat sets the format used by Output. Unknown names fall back
// to YAML.
func SetOutputFormat(format string) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(format))); f {
	case OutputFormatJSON, OutputFormatText:
		outputFormat = f
	default:
		outputFormat = OutputFormatYAML
	}
}

// Output prints data to stdout in the selected format.
func Output(data any) error {
	return OutputTo(os.Stdout, outputFormat, data)
}

// OutputToFile writes data to path in the selected format.
func OutputToFile(data any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := OutputTo(f, outputFormat, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputTo writes data to w. YAML output follows the JSON field names, so
// both formats show the same keys the HTTP API returns.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		return writeYAML(w, data)
	case OutputFormatText:
		if tr, ok := data.(TextRenderer); ok {
			return tr.RenderText(w)
		}
		return writeYAML(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeYAML(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
