package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shrreku/ai-studyagent/internal/providers"
)

func scrape(t *testing.T, r *Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestRecorder_RecordLLMCall(t *testing.T) {
	r := NewRecorder()

	r.RecordLLMCall("structure.core", &providers.ChatResult{
		Provider:         "openrouter",
		Success:          true,
		PromptTokens:     100,
		CompletionTokens: 40,
		CostUSD:          0.01,
		ExecutionTime:    2 * time.Second,
	}, nil)
	r.RecordLLMCall("structure.core", nil, errors.New("timeout"))

	body := scrape(t, r)
	for _, want := range []string{
		`studyagent_llm_completions_total{prompt_key="structure.core",provider="openrouter",status="success"} 1`,
		`studyagent_llm_completions_total{prompt_key="structure.core",provider="unknown",status="error"} 1`,
		`studyagent_llm_tokens_total{direction="input",provider="openrouter"} 100`,
		`studyagent_llm_tokens_total{direction="output",provider="openrouter"} 40`,
		`studyagent_llm_cost_usd_total{provider="openrouter"} 0.01`,
		`studyagent_llm_completion_seconds_count{prompt_key="structure.core"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.RecordExtraction("fenced")
	r.RecordStructure("chunked", OutcomeSuccess, 1.5)

	body := scrape(t, r)
	for _, want := range []string{
		`studyagent_json_extraction_total{strategy="fenced"} 1`,
		`studyagent_structure_results_total{mode="chunked",outcome="success"} 1`,
		"studyagent_structure_seconds_count 1",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.RecordLLMCall("k", nil, nil)
	r.RecordExtraction("direct")
	r.RecordStructure("single", OutcomeSuccess, 1)
	if r.Registry() != nil {
		t.Error("expected nil registry")
	}
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
