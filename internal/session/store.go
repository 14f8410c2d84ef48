// Package session holds the per-session review state: the current media
// reference, the transcription result, and the processing status. The
// store is an explicit handle with discrete mutation operations and an
// observer mechanism, mutated by the single active transcription flow
// and by user edits.
package session

import (
	"sync"

	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/transcript"
)

// Status is the session processing state
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// MediaMetadata describes the currently selected media file
type MediaMetadata struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	Key  string `json:"key,omitempty"` // storage key when staged remotely
}

// Snapshot is an immutable copy of the session state, safe to hand to
// observers and encode to JSON.
type Snapshot struct {
	Media  *MediaMetadata     `json:"media"`
	Result *transcript.Result `json:"result"`
	Status Status             `json:"status"`
	Error  string             `json:"error,omitempty"`
}

// Store is the mutable session state. All operations are atomic.
// Exactly one of {idle-empty, processing-empty, completed-with-result,
// error-with-message} holds between operations.
type Store struct {
	mu     sync.Mutex
	media  *MediaMetadata
	result *transcript.Result
	status Status
	errMsg string

	subscribers map[chan Snapshot]struct{}
}

// NewStore creates an idle, empty session store
func NewStore() *Store {
	return &Store{
		status:      StatusIdle,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// SetMedia replaces the current media reference and metadata, resetting
// any prior result, error, and status.
func (s *Store) SetMedia(meta MediaMetadata) {
	s.mu.Lock()
	s.media = &meta
	s.result = nil
	s.errMsg = ""
	s.status = StatusIdle
	s.notifyLocked()
	s.mu.Unlock()
}

// SetStatus transitions only the status
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.notifyLocked()
	s.mu.Unlock()
}

// SetResult installs a transcription result and marks the session completed
func (s *Store) SetResult(result *transcript.Result) {
	s.mu.Lock()
	s.result = result
	s.errMsg = ""
	s.status = StatusCompleted
	s.notifyLocked()
	s.mu.Unlock()
}

// SetError installs an error message and marks the session failed
func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.errMsg = message
	s.status = StatusError
	s.notifyLocked()
	s.mu.Unlock()
}

// EditSegmentText replaces one segment's text in place, located by id.
// Returns false when there is no result or no such segment; the call is
// then a no-op. Status, ids, and timestamps are never touched.
func (s *Store) EditSegmentText(id, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return false
	}

	for i := range s.result.Segments {
		if s.result.Segments[i].ID == id {
			s.result.Segments[i].Text = text
			observability.RecordSegmentEdit()
			s.notifyLocked()
			return true
		}
	}

	return false
}

// Reset clears media, result, and error, returning the session to idle
func (s *Store) Reset() {
	s.mu.Lock()
	s.media = nil
	s.result = nil
	s.errMsg = ""
	s.status = StatusIdle
	observability.RecordSessionReset()
	s.notifyLocked()
	s.mu.Unlock()
}

// Snapshot returns an immutable copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer. The returned channel receives a
// snapshot after every mutation; slow observers miss updates rather
// than blocking mutators.
func (s *Store) Subscribe() chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 8)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes an observer and closes its channel
func (s *Store) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status: s.status,
		Error:  s.errMsg,
	}

	if s.media != nil {
		media := *s.media
		snap.Media = &media
	}

	if s.result != nil {
		segments := make([]transcript.Segment, len(s.result.Segments))
		copy(segments, s.result.Segments)
		snap.Result = &transcript.Result{
			Raw:      s.result.Raw,
			Segments: segments,
		}
	}

	return snap
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Observer not keeping up; drop this update.
		}
	}
}
