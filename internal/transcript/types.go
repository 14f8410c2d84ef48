package transcript

import (
	"fmt"
	"strings"
)

// Segment is one timestamped unit of transcript text, the minimal
// editable piece of output.
type Segment struct {
	// ID is a stable identifier, unique within a transcript, assigned
	// in emission order ("seg-0", "seg-1", ...)
	ID string `json:"id"`

	// Timestamp is the MM:SS token taken verbatim from the line that
	// started the segment. It is never re-derived after assignment.
	Timestamp string `json:"timestamp"`

	// Text is the accumulated content for the segment. User edits
	// replace it in place.
	Text string `json:"text"`
}

// Result is the outcome of one transcription request.
type Result struct {
	// Raw is the full unmodified text returned by the model.
	Raw string `json:"raw"`

	// Segments is derived from Raw by Parse exactly once. Order is
	// emission order, which is also display order.
	Segments []Segment `json:"segments"`
}

// PlainText renders the segments back to one "[MM:SS] text" line per
// segment, the format used for transcript downloads.
func (r *Result) PlainText() string {
	var b strings.Builder
	for i, seg := range r.Segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %s", seg.Timestamp, seg.Text)
	}
	return b.String()
}
