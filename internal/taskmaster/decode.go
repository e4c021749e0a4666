package taskmaster

import (
	"github.com/kazz187/taskdigest/internal/task"
)

var (
	categoryIDKeys   = []string{"TaskCategoryId", "CategoryId"}
	categoryNameKeys = []string{"TaskCategoryName", "CategoryName"}

	taskIDKeys          = []string{"TaskId", "taskId"}
	taskSubjectKeys     = []string{"SubjectLine", "taskSubject"}
	taskStatusKeys      = []string{"LastStatusCode", "taskStatus"}
	taskPriorityKeys    = []string{"TaskPriority", "taskPriority"}
	taskAssigneeKeys    = []string{"TaskAssignedtoName", "assigneeName"}
	taskDaysOverdueKeys = []string{"DaysOverdue", "daysOverdue"}

	followUpTextKeys = []string{"TaskFollowUpComments", "FollowUpComment"}
	followUpDateKeys = []string{"FollowUpDate"}
)

// decodeCategories keeps only records that carry both an id and a name.
func decodeCategories(data []byte) ([]task.Category, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, err
	}
	records := extractRecords(root, categoryChain)
	categories := make([]task.Category, 0, len(records))
	for _, rec := range records {
		id, ok := intField(rec, categoryIDKeys...)
		name := stringField(rec, categoryNameKeys...)
		if !ok || name == "" {
			continue
		}
		categories = append(categories, task.Category{ID: id, Name: name})
	}
	return categories, nil
}

// decodeTasks keeps only records that carry a task id. Comments start empty.
func decodeTasks(data []byte) ([]*task.Task, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, err
	}
	records := extractRecords(root, taskChain)
	tasks := make([]*task.Task, 0, len(records))
	for _, rec := range records {
		id, ok := intField(rec, taskIDKeys...)
		if !ok {
			continue
		}
		overdue, _ := intField(rec, taskDaysOverdueKeys...)
		tasks = append(tasks, &task.Task{
			ID:          id,
			Subject:     stringField(rec, taskSubjectKeys...),
			Status:      stringField(rec, taskStatusKeys...),
			Priority:    stringField(rec, taskPriorityKeys...),
			Assignee:    stringField(rec, taskAssigneeKeys...),
			Comments:    []string{},
			DaysOverdue: int(max(overdue, 0)),
		})
	}
	return tasks, nil
}

func decodeFollowUps(data []byte) ([]task.CommentRecord, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, err
	}
	records := extractRecords(root, followUpChain)
	out := make([]task.CommentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, task.CommentRecord{
			Text:      stringField(rec, followUpTextKeys...),
			Timestamp: stringField(rec, followUpDateKeys...),
		})
	}
	return out, nil
}
