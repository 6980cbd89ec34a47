package llmcall

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot kinds.
const (
	SnapshotSuccess = "success"
	SnapshotFailure = "failure"
)

// Snapshot is a debug record of a structuring run written to disk.
type Snapshot struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// SinkConfig configures the snapshot sink.
type SinkConfig struct {
	Dir       string // Target directory (created on Start)
	QueueSize int    // Buffer size (default: 100)
	Logger    *slog.Logger
}

// SnapshotSink writes snapshots to disk off the request path.
type SnapshotSink struct {
	dir    string
	logger *slog.Logger

	queue chan Snapshot

	// Lifecycle
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSnapshotSink creates a new snapshot sink. Call Start before Send.
func NewSnapshotSink(cfg SinkConfig) *SnapshotSink {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SnapshotSink{
		dir:    cfg.Dir,
		logger: cfg.Logger,
		queue:  make(chan Snapshot, cfg.QueueSize),
	}
}

// Dir returns the snapshot directory.
func (s *SnapshotSink) Dir() string {
	return s.dir
}

// Start creates the directory and begins writing queued snapshots.
func (s *SnapshotSink) Start() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	s.wg.Add(1)
	go s.run()
	return nil
}

// Stop drains the queue and waits for pending writes.
func (s *SnapshotSink) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		s.wg.Wait()
	})
}

// Send queues a snapshot (fire-and-forget). Snapshots are dropped with a
// warning when the queue is full or the sink is stopped.
func (s *SnapshotSink) Send(snap Snapshot) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	// Use recover to handle send on closed channel
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("snapshot sink closed, dropping snapshot", "kind", snap.Kind, "id", snap.ID)
		}
	}()

	select {
	case s.queue <- snap:
	default:
		s.logger.Warn("snapshot queue full, dropping snapshot", "kind", snap.Kind, "id", snap.ID)
	}
}

func (s *SnapshotSink) run() {
	defer s.wg.Done()
	for snap := range s.queue {
		if _, err := s.write(snap); err != nil {
			s.logger.Warn("failed to write snapshot", "kind", snap.Kind, "id", snap.ID, "error", err)
		}
	}
}

// write stores one snapshot as <timestamp>_<kind>_<id>.json.
func (s *SnapshotSink) write(snap Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.json", snap.Timestamp.UTC().Format("20060102T150405"), snap.Kind, snap.ID)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	s.logger.Debug("wrote snapshot", "path", path)
	return path, nil
}
