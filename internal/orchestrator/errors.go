package orchestrator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a transcription failure. Every failure surfaced
// by the orchestrator carries exactly one kind; callers choose their
// retry/backoff policy from it.
type ErrorKind string

const (
	// KindConfiguration means a required credential or setting is
	// absent. Fatal; never retried.
	KindConfiguration ErrorKind = "configuration"

	// KindInput means the media reference is missing or invalid, the
	// file type is disallowed, or the file is oversized. Caller-
	// correctable; not retried automatically.
	KindInput ErrorKind = "input"

	// KindEmptyTranscript means the model ran successfully but produced
	// no usable text, e.g. a silent video. Terminal for that input.
	KindEmptyTranscript ErrorKind = "empty_transcript"

	// KindTimeout means the model call exceeded the configured bound.
	KindTimeout ErrorKind = "timeout"

	// KindQuota means the model's rate or quota limit was hit. Caller
	// should back off and retry later.
	KindQuota ErrorKind = "quota"

	// KindStorage means staging or fetching remote bytes failed.
	KindStorage ErrorKind = "storage"

	// KindInternal is the default for uncategorized failures.
	KindInternal ErrorKind = "internal"
)

// Error is a classified transcription failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a classified error
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the classification from an error chain. Unknown
// errors classify as KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
