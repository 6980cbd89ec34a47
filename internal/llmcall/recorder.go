package llmcall

import (
	"github.com/shrreku/ai-studyagent/internal/providers"
)

// Recorder keeps call history and forwards debug snapshots. A nil Recorder,
// or one without a store or sink, silently skips that part.
type Recorder struct {
	store *Store
	sink  *SnapshotSink
}

// NewRecorder creates a new LLM call recorder. Either argument may be nil.
func NewRecorder(store *Store, sink *SnapshotSink) *Recorder {
	return &Recorder{store: store, sink: sink}
}

// Store returns the call history.
func (r *Recorder) Store() *Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Record captures an LLM call.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) *Call {
	if r == nil || r.store == nil {
		return nil
	}
	call := FromChatResult(result, opts)
	if call == nil {
		return nil
	}
	r.store.Add(*call)
	return call
}

// Snapshot queues a debug snapshot when a sink is configured.
func (r *Recorder) Snapshot(kind, requestID string, data any) {
	if r == nil || r.sink == nil {
		return
	}
	r.sink.Send(Snapshot{Kind: kind, RequestID: requestID, Data: data})
}
