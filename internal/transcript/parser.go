// Package transcript converts raw model output into an ordered sequence
// of timestamped segments.
//
// The model is asked to emit one "[MM:SS] text" line per speech segment,
// but its output is only loosely formatted: brackets come and go, lines
// wrap, and sometimes no timestamps appear at all. Parse absorbs all of
// that and always produces a usable segment list.
package transcript

import (
	"fmt"
	"regexp"
	"strings"
)

// timestampRe matches the first MM:SS token on a line. Both brackets are
// optional independently, so a bare "12:34" anywhere on the line counts
// as a timestamp marker. That can misfire on incidental numeric content
// spoken in the audio; accepted trade-off.
var timestampRe = regexp.MustCompile(`\[?(\d{1,2}:\d{2})\]?`)

// separatorRe strips a single leading separator ("- ", ": ", ...) left
// behind after the timestamp token is removed. Applied once, before the
// final trim, so it only fires when the separator immediately follows
// the removed token.
var separatorRe = regexp.MustCompile(`^[-:]\s*`)

// Parse converts raw transcript text into ordered segments. It is pure
// and total: it never fails, and identical input yields identical output.
//
// Each line either starts a segment (it carries a timestamp token), or
// continues the previous one (plain text merges into the most recently
// created segment). Stray text before the first timestamp is discarded.
// If nothing parsed but the input is non-blank, the whole input becomes
// a single segment at 00:00 so the transcript is never silently lost.
func Parse(text string) []Segment {
	lines := strings.Split(text, "\n")
	segments := make([]Segment, 0, len(lines))

	index := 0
	for _, line := range lines {
		match := timestampRe.FindStringSubmatchIndex(line)
		if match != nil {
			timestamp := line[match[2]:match[3]]
			// Remove only the first token; any later tokens on the
			// same line stay in the content verbatim.
			rest := line[:match[0]] + line[match[1]:]
			rest = separatorRe.ReplaceAllString(rest, "")
			content := strings.TrimSpace(rest)
			if content != "" {
				segments = append(segments, Segment{
					ID:        fmt.Sprintf("seg-%d", index),
					Timestamp: timestamp,
					Text:      content,
				})
				index++
			}
			// A timestamp line with no content contributes nothing
			// and does not reset the continuation target.
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" && len(segments) > 0 {
			segments[len(segments)-1].Text += " " + trimmed
		}
	}

	if len(segments) == 0 && strings.TrimSpace(text) != "" {
		segments = append(segments, Segment{
			ID:        fmt.Sprintf("seg-%d", index),
			Timestamp: "00:00",
			Text:      strings.TrimSpace(text),
		})
	}

	return segments
}
