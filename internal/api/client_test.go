package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]any{"echo": body["rawPlanText"]})
	}))
	defer srv.Close()

	var resp map[string]any
	err := NewClient(srv.URL).Post(context.Background(), "/api/plans/structure",
		map[string]any{"rawPlanText": "plan"}, &resp)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp["echo"] != "plan" {
		t.Errorf("expected echo plan, got %v", resp["echo"])
	}
}

func TestClient_ErrorDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"Failed to structure plan","details":"parsing failed"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Get(context.Background(), "/x", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "server error (422): Failed to structure plan: parsing failed"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestClient_PostFiles(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("thermodynamics"), 0o644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		f, fh, err := r.FormFile("notes")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		json.NewEncoder(w).Encode(map[string]string{
			"name":    fh.Filename,
			"content": string(data),
			"days":    r.FormValue("days"),
		})
	}))
	defer srv.Close()

	var resp map[string]string
	err := NewClient(srv.URL).PostFiles(context.Background(), "/api/upload",
		map[string]string{"notes": notes, "questions": ""},
		map[string]string{"days": "4"}, &resp)
	if err != nil {
		t.Fatalf("PostFiles: %v", err)
	}
	if resp["name"] != "notes.txt" || resp["content"] != "thermodynamics" || resp["days"] != "4" {
		t.Errorf("unexpected echo %v", resp)
	}
}

func TestOutputTo(t *testing.T) {
	var sb strings.Builder
	if err := OutputTo(&sb, OutputFormatYAML, map[string]int{"days": 3}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(sb.String()) != "days: 3" {
		t.Errorf("unexpected yaml %q", sb.String())
	}
	if err := OutputTo(&sb, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

type renderedValue struct {
	StudyDays int `json:"study_days"`
}

func (renderedValue) RenderText(w io.Writer) error {
	_, err := io.WriteString(w, "rendered\n")
	return err
}

func TestOutputTo_FieldNamesAndText(t *testing.T) {
	var sb strings.Builder
	if err := OutputTo(&sb, OutputFormatYAML, renderedValue{StudyDays: 5}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(sb.String()) != "study_days: 5" {
		t.Errorf("yaml should use json field names, got %q", sb.String())
	}

	sb.Reset()
	if err := OutputTo(&sb, OutputFormatText, renderedValue{}); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "rendered\n" {
		t.Errorf("text output = %q", sb.String())
	}

	sb.Reset()
	if err := OutputTo(&sb, OutputFormatText, map[string]int{"days": 2}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(sb.String()) != "days: 2" {
		t.Errorf("text fallback = %q", sb.String())
	}
}

type fakeEndpoint struct {
	method, path, use string
}

func (e fakeEndpoint) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(e.use))
	}
}

func (e fakeEndpoint) RequiresInit() bool { return strings.HasPrefix(e.path, "/api/") }

func (e fakeEndpoint) Command(func() string) *cobra.Command {
	if e.use == "" {
		return nil
	}
	return &cobra.Command{Use: e.use}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(fakeEndpoint{"GET", "/health", "health"})
	r.Register(fakeEndpoint{"POST", "/api/plans/structure", "structure"})
	r.Register(fakeEndpoint{"POST", "/api/plans/preview", "preview"})
	r.Register(fakeEndpoint{"POST", "/api/upload", ""})

	t.Run("commands grouped by path", func(t *testing.T) {
		root := r.BuildCommands(func() string { return "" })
		names := map[string]bool{}
		for _, c := range root.Commands() {
			names[c.Name()] = true
		}
		if !names["health"] || !names["plans"] || names["upload"] {
			t.Errorf("unexpected top-level commands %v", names)
		}
		plans, _, err := root.Find([]string{"plans", "preview"})
		if err != nil || plans.Name() != "preview" {
			t.Errorf("expected plans preview command, got %v %v", plans, err)
		}
	})

	t.Run("init middleware only on api routes", func(t *testing.T) {
		mux := http.NewServeMux()
		r.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for /health, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/plans/structure", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503 for structure, got %d", rec.Code)
		}
	})
}
