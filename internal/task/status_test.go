package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlocked(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Blocked", true},
		{"ON HOLD", true},
		{"Stopped by vendor", true},
		{"Open", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlocked(tt.status))
		})
	}
}

func TestIsDone(t *testing.T) {
	// Matching ignores case so "done" and "Done" are treated alike.
	assert.True(t, IsDone("Done"))
	assert.True(t, IsDone("done"))
	assert.True(t, IsDone("DONE - verified"))
	assert.False(t, IsDone("Open"))
}

func TestTask_IsOverdue(t *testing.T) {
	assert.True(t, (&Task{DaysOverdue: 1}).IsOverdue())
	assert.False(t, (&Task{}).IsOverdue())
}
