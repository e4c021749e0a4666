package taskmaster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdigest/internal/task"
)

func TestDecodeCategories(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []task.Category
	}{
		{
			name: "bare array with primary spelling",
			body: `[{"TaskCategoryId": 3, "TaskCategoryName": "Billing"}]`,
			want: []task.Category{{ID: 3, Name: "Billing"}},
		},
		{
			name: "wrapped in Data with alternate spelling",
			body: `{"Data": [{"CategoryId": "4", "CategoryName": "Claims"}]}`,
			want: []task.Category{{ID: 4, Name: "Claims"}},
		},
		{
			name: "wrapped in categories",
			body: `{"categories": [{"CategoryId": 5, "CategoryName": "Intake"}]}`,
			want: []task.Category{{ID: 5, Name: "Intake"}},
		},
		{
			name: "Data that is not a list falls through",
			body: `{"Data": null, "categories": [{"CategoryId": 6, "CategoryName": "Audit"}]}`,
			want: []task.Category{{ID: 6, Name: "Audit"}},
		},
		{
			name: "primary spelling wins over alternate",
			body: `[{"TaskCategoryId": 1, "CategoryId": 2, "TaskCategoryName": "A", "CategoryName": "B"}]`,
			want: []task.Category{{ID: 1, Name: "A"}},
		},
		{
			name: "records without id or name are dropped",
			body: `[{"CategoryName": "No id"}, {"CategoryId": 9}, {"CategoryId": 0, "CategoryName": "Zero"}, "junk", {"CategoryId": 7, "CategoryName": "Kept"}]`,
			want: []task.Category{{ID: 7, Name: "Kept"}},
		},
		{
			name: "unknown wrapper",
			body: `{"items": [{"CategoryId": 1, "CategoryName": "x"}]}`,
			want: []task.Category{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCategories([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCategories_Malformed(t *testing.T) {
	_, err := decodeCategories([]byte(`{"Data": [`))
	assert.Error(t, err)
}

func TestDecodeTasks(t *testing.T) {
	body := `{"Data": [
		{"TaskId": 1, "SubjectLine": "Fix invoice", "LastStatusCode": "Open", "TaskPriority": "High", "TaskAssignedtoName": "Dr. Lee", "DaysOverdue": 2},
		{"taskId": 2, "taskSubject": "Call payer", "taskStatus": "On Hold", "taskPriority": "Low", "assigneeName": null, "daysOverdue": -4},
		{"SubjectLine": "missing id"},
		{"TaskId": 3.0}
	]}`
	got, err := decodeTasks([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []*task.Task{
		{ID: 1, Subject: "Fix invoice", Status: "Open", Priority: "High", Assignee: "Dr. Lee", Comments: []string{}, DaysOverdue: 2},
		{ID: 2, Subject: "Call payer", Status: "On Hold", Priority: "Low", Comments: []string{}, DaysOverdue: 0},
		{ID: 3, Comments: []string{}},
	}, got)
}

func TestDecodeFollowUps(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []task.CommentRecord
	}{
		{
			name: "nested under Data",
			body: `{"Data": {"FollowUpHistoryDetails": [{"TaskFollowUpComments": "need review", "FollowUpDate": "2025-03-07T10:00:00Z"}]}}`,
			want: []task.CommentRecord{{Text: "need review", Timestamp: "2025-03-07T10:00:00Z"}},
		},
		{
			name: "top level details with alternate text key",
			body: `{"FollowUpHistoryDetails": [{"FollowUpComment": "called", "FollowUpDate": null}]}`,
			want: []task.CommentRecord{{Text: "called"}},
		},
		{
			name: "bare array",
			body: `[{"TaskFollowUpComments": "a", "FollowUpDate": "2025-03-07"}]`,
			want: []task.CommentRecord{{Text: "a", Timestamp: "2025-03-07"}},
		},
		{
			name: "Data object without details",
			body: `{"Data": {"Total": 0}}`,
			want: []task.CommentRecord{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeFollowUps([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
