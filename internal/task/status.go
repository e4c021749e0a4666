package task

import "strings"

var blockedMarkers = []string{"blocked", "hold", "stopped"}

// IsBlocked reports whether status mentions a blocked, on-hold or stopped state.
func IsBlocked(status string) bool {
	s := strings.ToLower(status)
	for _, m := range blockedMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func IsDone(status string) bool {
	return strings.Contains(strings.ToLower(status), "done")
}

func (t *Task) IsOverdue() bool {
	return t.DaysOverdue > 0
}
