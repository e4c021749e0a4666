package task

import (
	"regexp"
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var fractionalSeconds = regexp.MustCompile(`(:\d{2})\.\d+`)

// ParseTimestamp parses an upstream follow-up timestamp. A trailing "Z" and
// any sub-second fraction are dropped first; timestamps without an offset are
// read in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "Z")
	s = fractionalSeconds.ReplaceAllString(s, "$1")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterComments returns the text of every record inside the lookback window,
// in input order. With a nil window every non-empty text is kept. With a
// window, records whose timestamp is missing or unparseable are dropped, and
// a timestamp exactly at the threshold is kept.
func FilterComments(records []CommentRecord, window *int, now time.Time, loc *time.Location) []string {
	out := make([]string, 0, len(records))
	if window == nil {
		for _, r := range records {
			if r.Text != "" {
				out = append(out, r.Text)
			}
		}
		return out
	}

	if loc == nil {
		loc = time.UTC
	}
	threshold := now.Add(-time.Duration(*window) * 24 * time.Hour)
	for _, r := range records {
		if r.Text == "" {
			continue
		}
		ts, ok := ParseTimestamp(r.Timestamp, loc)
		if !ok || ts.Before(threshold) {
			continue
		}
		out = append(out, r.Text)
	}
	return out
}
