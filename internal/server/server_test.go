package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shrreku/ai-studyagent/internal/config"
	"github.com/shrreku/ai-studyagent/internal/home"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/server/endpoints"
)

// newTestServer builds a server with no enabled providers, bound to a
// random local port.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager(cfgPath, dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	h, err := home.New(dir)
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          "0",
		Home:          h,
		ConfigManager: mgr,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func TestServer_Handler(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Handler()

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, r)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("health", func(t *testing.T) {
		rec := do("GET", "/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("health status = %d, want %d", rec.Code, http.StatusOK)
		}
		var health endpoints.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("health.Status = %q, want %q", health.Status, "ok")
		}
	})

	t.Run("status", func(t *testing.T) {
		rec := do("GET", "/status", "")
		var status endpoints.StatusResponse
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.Server != "running" {
			t.Errorf("status.Server = %q, want %q", status.Server, "running")
		}
		if status.Providers.Configured {
			t.Error("expected no configured provider")
		}
		if status.Structurer.Mode != "chunked" {
			t.Errorf("status.Structurer.Mode = %q, want chunked", status.Structurer.Mode)
		}
	})

	t.Run("structure_not_configured", func(t *testing.T) {
		rec := do("POST", "/api/plans/structure", `{"rawPlanText":"Day 1: read"}`)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("structure status = %d, want %d: %s", rec.Code, http.StatusServiceUnavailable, rec.Body)
		}
	})

	t.Run("generate_falls_back", func(t *testing.T) {
		rec := do("POST", "/api/plans/generate",
			`{"notes":"Day 1: Laws of thermodynamics\n- Read chapter 1\nDay 2: Entropy\n- Solve problems","study_duration_days":2,"study_hours_per_day":1.5}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("generate status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
		}
		var resp endpoints.GenerateResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Fallback {
			t.Error("expected fallback plan")
		}
		if resp.StudyPlanResult.Success == nil {
			t.Fatal("expected success payload")
		}
	})

	t.Run("sample", func(t *testing.T) {
		rec := do("GET", "/api/plans/sample", "")
		if rec.Code != http.StatusOK {
			t.Errorf("sample status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		rec := do("GET", "/metrics", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("metrics status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "studyagent_structure_results_total") {
			t.Errorf("expected structure counter after fallback, got:\n%s", rec.Body)
		}
	})

	t.Run("swagger", func(t *testing.T) {
		rec := do("GET", "/swagger.json", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("swagger status = %d, want %d", rec.Code, http.StatusOK)
		}
		var spec map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
			t.Fatalf("swagger.json is not JSON: %v", err)
		}
		if _, ok := spec["paths"].(map[string]any)["/api/plans/structure"]; !ok {
			t.Error("expected structure route in swagger paths")
		}
	})

	t.Run("cors_preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/plans/structure", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
		}
	})

	t.Run("cors_unknown_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})
}

func TestServer_StructureWithMockProvider(t *testing.T) {
	srv := newTestServer(t)

	mock := providers.NewMockClient()
	mock.ResponseText = "no json here"
	srv.Registry().RegisterLLM(providers.MockClientName, mock)
	srv.Registry().SetDefault(providers.MockClientName)

	req := httptest.NewRequest("POST", "/api/plans/structure",
		strings.NewReader(`{"rawPlanText":"Day 1: Read chapter 1","mode":"single"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("structure status = %d, want %d: %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
	}
	if mock.RequestCount() == 0 {
		t.Error("expected the mock provider to be called")
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/llmcalls?success=true", nil))
	var calls endpoints.LLMCallsResponse
	if err := json.NewDecoder(rec.Body).Decode(&calls); err != nil {
		t.Fatalf("failed to decode llmcalls: %v", err)
	}
	if calls.Total == 0 {
		t.Error("expected recorded calls")
	}
}

func TestServer_Reload(t *testing.T) {
	srv := newTestServer(t)
	enabled := func() *config.Config {
		c := config.DefaultConfig()
		p := c.LLMProviders["openai"]
		p.APIKey = "sk-test"
		p.Enabled = true
		c.LLMProviders["openai"] = p
		c.Defaults.LLMProvider = "openai"
		return c
	}

	t.Run("failed build keeps registry and services", func(t *testing.T) {
		before := srv.services.Load()

		badTemplate := filepath.Join(t.TempDir(), "template.json")
		if err := os.WriteFile(badTemplate, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		c := enabled()
		c.Structurer.TemplatePath = badTemplate

		if err := srv.reload(c); err == nil {
			t.Fatal("expected reload error for an invalid plan template")
		}
		if got := srv.Registry().ListLLM(); len(got) != 0 {
			t.Errorf("ListLLM() = %v after failed reload, want none", got)
		}
		if srv.services.Load() != before {
			t.Error("services were replaced by a failed reload")
		}
	})

	t.Run("successful build applies providers", func(t *testing.T) {
		before := srv.services.Load()
		if err := srv.reload(enabled()); err != nil {
			t.Fatalf("reload() error = %v", err)
		}
		if !srv.Registry().HasLLM("openai") {
			t.Errorf("ListLLM() = %v, want openai", srv.Registry().ListLLM())
		}
		if srv.services.Load() == before {
			t.Error("services were not replaced")
		}
	})
}

func TestServer_Lifecycle(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	baseURL, err := waitForServer(ctx, srv, 10*time.Second)
	if err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("is_running", func(t *testing.T) {
		if !srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
	})

	t.Run("double_start", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("second Start() should fail while running")
		}
	})

	t.Run("health_over_network", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	serverCancel()
	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
	if _, err := http.Get(baseURL + "/health"); err == nil {
		t.Error("expected connection error after shutdown")
	}
}

// waitForServer polls /health until the server answers.
func waitForServer(ctx context.Context, srv *Server, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: time.Second}
	for time.Now().Before(deadline) {
		if srv.IsRunning() {
			baseURL := "http://" + srv.Addr()
			resp, err := client.Get(baseURL + "/health")
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return baseURL, nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return "", fmt.Errorf("timeout after %s", timeout)
}
