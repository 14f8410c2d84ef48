// Package orchestrator coordinates a transcription request: fetch the
// staged media bytes, invoke the generative model under a deadline,
// parse the raw text into segments, and clean up the staged object.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/transcriptai/transcript-service/internal/config"
	"github.com/transcriptai/transcript-service/internal/gemini"
	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/storage"
	"github.com/transcriptai/transcript-service/internal/transcript"
)

// Capability is the external transcription capability: given media bytes
// and a MIME type, return the model's free-form text. Failure modes are
// opaque except for quota rejections, reported as *gemini.QuotaError.
type Capability interface {
	Generate(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Transcriber runs transcription requests end to end
type Transcriber struct {
	capability Capability
	store      storage.Store
	timeout    time.Duration
}

// New creates a Transcriber. store may be nil when staged uploads are
// disabled; Transcribe then rejects key-based requests.
func New(cfg *config.Config, capability Capability, store storage.Store) *Transcriber {
	return &Transcriber{
		capability: capability,
		store:      store,
		timeout:    time.Duration(cfg.TranscribeTimeout) * time.Second,
	}
}

// Transcribe fetches the staged object by key, transcribes it, and
// parses the result. The staged object is deleted exactly once whether
// the request succeeds or fails; a failed delete is logged, never
// surfaced over the primary outcome.
func (t *Transcriber) Transcribe(ctx context.Context, key, mimeType string) (*transcript.Result, error) {
	logger := observability.GetLogger().With().Str("key", key).Logger()
	metrics := observability.NewRequestMetrics()

	if t.store == nil {
		err := NewError(KindConfiguration, "object storage is not configured", nil)
		metrics.RecordOutcome(string(KindConfiguration))
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		err := NewError(KindInput, "no media reference provided", nil)
		metrics.RecordOutcome(string(KindInput))
		return nil, err
	}

	// The staged object exists solely for this request. Remove it on
	// every exit path, with a fresh context because the request's own
	// context may already be expired on the timeout path.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := t.store.Delete(cleanupCtx, key); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete staged media")
		} else {
			logger.Debug().Msg("Deleted staged media")
		}
	}()

	data, err := t.store.Download(ctx, key)
	if err != nil {
		kind := KindStorage
		if isMissingObject(err) {
			kind = KindInput
		}
		metrics.RecordOutcome(string(kind))
		return nil, NewError(kind, "failed to fetch staged media", err)
	}

	result, err := t.run(ctx, metrics, data, mimeType)
	if err != nil {
		metrics.RecordOutcome(string(KindOf(err)))
		return nil, err
	}

	metrics.RecordOutcome("success")
	return result, nil
}

// TranscribeBytes transcribes media supplied directly by the caller,
// with no staged object to clean up.
func (t *Transcriber) TranscribeBytes(ctx context.Context, data []byte, mimeType string) (*transcript.Result, error) {
	metrics := observability.NewRequestMetrics()

	if len(data) == 0 {
		err := NewError(KindInput, "no media bytes provided", nil)
		metrics.RecordOutcome(string(KindInput))
		return nil, err
	}

	result, err := t.run(ctx, metrics, data, mimeType)
	if err != nil {
		metrics.RecordOutcome(string(KindOf(err)))
		return nil, err
	}

	metrics.RecordOutcome("success")
	return result, nil
}

// run invokes the capability under the configured deadline and parses
// the response.
func (t *Transcriber) run(ctx context.Context, metrics *observability.RequestMetrics, data []byte, mimeType string) (*transcript.Result, error) {
	raw, err := t.generateWithDeadline(ctx, metrics, data, mimeType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		// The model ran but produced nothing, e.g. a silent video.
		return nil, NewError(KindEmptyTranscript, "model returned an empty transcript", nil)
	}

	segments := transcript.Parse(raw)
	observability.RecordSegments(len(segments))

	return &transcript.Result{Raw: raw, Segments: segments}, nil
}

type generateOutcome struct {
	text string
	err  error
}

// generateWithDeadline races the capability call against the configured
// timeout. When the local deadline wins, the remote call may keep
// running; there is no cooperative cancellation beyond the context.
func (t *Transcriber) generateWithDeadline(ctx context.Context, metrics *observability.RequestMetrics, data []byte, mimeType string) (string, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	metrics.RecordGeminiStart()

	done := make(chan generateOutcome, 1)
	go func() {
		text, err := t.capability.Generate(callCtx, data, mimeType)
		done <- generateOutcome{text: text, err: err}
	}()

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case outcome := <-done:
		metrics.RecordGeminiEnd(outcome.err == nil)
		if outcome.err != nil {
			return "", classifyCapabilityError(outcome.err)
		}
		return outcome.text, nil

	case <-timer.C:
		metrics.RecordGeminiEnd(false)
		return "", NewError(KindTimeout, "transcription exceeded the time limit; try a shorter file", nil)

	case <-ctx.Done():
		metrics.RecordGeminiEnd(false)
		return "", NewError(KindTimeout, "transcription request cancelled", ctx.Err())
	}
}

// classifyCapabilityError maps a capability failure onto exactly one
// taxonomy kind. Unknown failures default to internal.
func classifyCapabilityError(err error) error {
	var quota *gemini.QuotaError
	if errors.As(err, &quota) {
		return NewError(KindQuota, "transcription quota exceeded; retry later", err)
	}
	return NewError(KindInternal, "transcription failed", err)
}

func isMissingObject(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") ||
		strings.Contains(msg, "NotFound") ||
		strings.Contains(msg, "status code: 404")
}
