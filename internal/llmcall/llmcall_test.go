package llmcall

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shrreku/ai-studyagent/internal/providers"
)

func TestFromChatResult(t *testing.T) {
	t.Run("nil result without error", func(t *testing.T) {
		if call := FromChatResult(nil, RecordOptions{}); call != nil {
			t.Errorf("expected nil, got %+v", call)
		}
	})

	t.Run("successful result", func(t *testing.T) {
		temp := 0.7
		call := FromChatResult(&providers.ChatResult{
			Content:          `{"ok": true}`,
			PromptTokens:     100,
			CompletionTokens: 20,
			ExecutionTime:    1500 * time.Millisecond,
			Provider:         "openrouter",
			ModelUsed:        "deepseek",
			Success:          true,
		}, RecordOptions{RequestID: "req-1", PromptKey: "structure.core", PromptHash: "abc", Temperature: &temp, Attempt: 1})

		if call.ID == "" {
			t.Error("expected generated ID")
		}
		if call.LatencyMs != 1500 {
			t.Errorf("LatencyMs = %d, want 1500", call.LatencyMs)
		}
		if call.PromptKey != "structure.core" || call.PromptHash != "abc" || call.RequestID != "req-1" {
			t.Errorf("traceability fields = %+v", call)
		}
		if !call.Success || call.Error != "" {
			t.Errorf("status = %v/%q", call.Success, call.Error)
		}
		if call.Temperature == nil || *call.Temperature != 0.7 {
			t.Errorf("Temperature = %v", call.Temperature)
		}
	})

	t.Run("transport error without result", func(t *testing.T) {
		call := FromChatResult(nil, RecordOptions{PromptKey: "structure.single", Err: errors.New("connection refused")})
		if call == nil {
			t.Fatal("expected a record")
		}
		if call.Success || call.Error != "connection refused" {
			t.Errorf("status = %v/%q", call.Success, call.Error)
		}
	})

	t.Run("failed result keeps provider error", func(t *testing.T) {
		call := FromChatResult(&providers.ChatResult{Success: false, ErrorMessage: "no choices"}, RecordOptions{})
		if call.Error != "no choices" {
			t.Errorf("Error = %q", call.Error)
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("newest first with eviction", func(t *testing.T) {
		s := NewStore(3)
		for i := 1; i <= 5; i++ {
			s.Add(Call{ID: fmt.Sprintf("c%d", i)})
		}
		if s.Len() != 3 {
			t.Errorf("Len = %d, want 3", s.Len())
		}
		calls := s.List(QueryFilter{})
		var ids []string
		for _, c := range calls {
			ids = append(ids, c.ID)
		}
		if strings.Join(ids, ",") != "c5,c4,c3" {
			t.Errorf("ids = %v", ids)
		}
		if s.Get("c1") != nil {
			t.Error("c1 should have been evicted")
		}
		if got := s.Get("c4"); got == nil || got.ID != "c4" {
			t.Errorf("Get(c4) = %v", got)
		}
	})

	t.Run("filters", func(t *testing.T) {
		s := NewStore(10)
		s.Add(Call{ID: "a", RequestID: "r1", PromptKey: "structure.core", Success: true})
		s.Add(Call{ID: "b", RequestID: "r1", PromptKey: "structure.schedule", Success: false})
		s.Add(Call{ID: "c", RequestID: "r2", PromptKey: "structure.core", Success: true})

		if got := s.List(QueryFilter{RequestID: "r1"}); len(got) != 2 {
			t.Errorf("RequestID filter = %d calls, want 2", len(got))
		}
		if got := s.List(QueryFilter{PromptKey: "structure.core"}); len(got) != 2 {
			t.Errorf("PromptKey filter = %d calls, want 2", len(got))
		}
		failed := false
		if got := s.List(QueryFilter{Success: &failed}); len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Success filter = %+v", got)
		}
		if got := s.List(QueryFilter{Limit: 1, Offset: 1}); len(got) != 1 || got[0].ID != "b" {
			t.Errorf("Limit/Offset = %+v", got)
		}
	})
}

func TestRecorder(t *testing.T) {
	t.Run("nil recorder is a no-op", func(t *testing.T) {
		var r *Recorder
		if r.Record(&providers.ChatResult{}, RecordOptions{}) != nil {
			t.Error("expected nil call")
		}
		r.Snapshot(SnapshotSuccess, "id", nil)
		if r.Store() != nil {
			t.Error("expected nil store")
		}
	})

	t.Run("records into store", func(t *testing.T) {
		store := NewStore(10)
		r := NewRecorder(store, nil)
		call := r.Record(&providers.ChatResult{Success: true, Content: "x"}, RecordOptions{PromptKey: "k"})
		if call == nil || store.Get(call.ID) == nil {
			t.Error("call not stored")
		}
	})
}

func TestSnapshotSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	sink := NewSnapshotSink(SinkConfig{Dir: dir})
	if err := sink.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	r := NewRecorder(nil, sink)
	r.Snapshot(SnapshotFailure, "req-9", map[string]any{"error": "Failed to structure the study plan"})
	sink.Stop()

	// Sends after stop are dropped, not panics.
	r.Snapshot(SnapshotSuccess, "req-10", nil)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d snapshot files, want 1", len(entries))
	}
	if !strings.Contains(entries[0].Name(), "_failure_") {
		t.Errorf("file name = %q", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if snap.RequestID != "req-9" || snap.Kind != SnapshotFailure {
		t.Errorf("snapshot = %+v", snap)
	}
}
