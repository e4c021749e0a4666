package task

// Task is one unit of work as reported by Taskmaster. Tasks are rebuilt from
// every upstream response and shared read-only once cached.
type Task struct {
	ID       int64  `json:"taskId" yaml:"taskId"`
	Subject  string `json:"taskSubject" yaml:"taskSubject"`
	Status   string `json:"taskStatus" yaml:"taskStatus"`
	Priority string `json:"taskPriority" yaml:"taskPriority"`
	// Assignee is empty when upstream has no assignee.
	Assignee string `json:"assigneeName,omitempty" yaml:"assigneeName,omitempty"`
	// Comments holds window-filtered follow-ups; index 0 is rendered as the latest.
	Comments    []string `json:"followUpComments" yaml:"followUpComments"`
	DaysOverdue int      `json:"daysOverdue" yaml:"daysOverdue"`
}

type Category struct {
	ID   int64  `json:"categoryId" yaml:"categoryId"`
	Name string `json:"categoryName" yaml:"categoryName"`
}

// CategoryTask pairs a task with the name of the category it was found in.
type CategoryTask struct {
	Category string `json:"category" yaml:"category"`
	Task     *Task  `json:"task" yaml:"task"`
}

// CommentRecord is a raw follow-up entry before window filtering.
type CommentRecord struct {
	Text string
	// Timestamp is the upstream string as received; empty when absent.
	Timestamp string
}

// DefaultWindowDays is the lookback used when a caller does not pick one.
const DefaultWindowDays = 7

// Window returns a pointer to days, for call sites that need a set window.
func Window(days int) *int {
	return &days
}
