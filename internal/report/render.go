// Package report renders ranked task digests as markdown text.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kazz187/taskdigest/internal/task"
)

type Detail string

const (
	DetailShort    Detail = "short"
	DetailDetailed Detail = "detailed"
)

const (
	topN              = 5
	maxCommentsListed = 5
	latestMaxRunes    = 150
)

// ParseDetail maps a caller-supplied level to a Detail. Anything other than
// "detailed" renders short.
func ParseDetail(s string) Detail {
	if strings.EqualFold(strings.TrimSpace(s), string(DetailDetailed)) {
		return DetailDetailed
	}
	return DetailShort
}

// WindowLabel describes a lookback window for headings.
func WindowLabel(window *int) string {
	if window == nil {
		return "all time"
	}
	if *window == 1 {
		return "last 1 day"
	}
	return fmt.Sprintf("last %d days", *window)
}

// Digest ranks tasks and renders the top five under a heading naming subject.
func Digest(subject string, window *int, tasks []*task.Task, detail Detail) string {
	label := WindowLabel(window)
	var b strings.Builder
	fmt.Fprintf(&b, "### %s - Summary (%s)\n", subject, label)

	top := task.Top(tasks, topN)
	if len(top) == 0 {
		fmt.Fprintf(&b, "No active tasks or updates found for %s.", label)
		return b.String()
	}
	for i, r := range top {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeBlock(&b, r.Task, detail)
	}
	return b.String()
}

// TaskSummary renders a single task block without a heading.
func TaskSummary(t *task.Task, detail Detail) string {
	var b strings.Builder
	writeBlock(&b, t, detail)
	return b.String()
}

func writeBlock(b *strings.Builder, t *task.Task, detail Detail) {
	marker := "[PNDG]"
	if task.IsDone(t.Status) {
		marker = "[DONE]"
	}
	fmt.Fprintf(b, "- %s **%s** (%s)", marker, t.Subject, t.Status)
	if len(t.Comments) == 0 {
		return
	}

	if detail != DetailDetailed {
		fmt.Fprintf(b, "\n  *Latest update:* %s", truncate(t.Comments[0], latestMaxRunes))
		return
	}
	for i, c := range t.Comments {
		if i == maxCommentsListed {
			break
		}
		fmt.Fprintf(b, "\n  %d. %s", i+1, c)
	}
	if rest := len(t.Comments) - maxCommentsListed; rest > 0 {
		noun := "updates"
		if rest == 1 {
			noun = "update"
		}
		fmt.Fprintf(b, "\n  ...and %d more %s", rest, noun)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
