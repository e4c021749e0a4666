package aggregator

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/iter"

	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/pkg/degrade"
)

// FanOut fetches every category with at most fanOutLimit fetches in flight
// and returns the tasks accepted by match. Results follow category-list
// order, then upstream order within a category. A category that fails or
// panics contributes nothing.
func (f *Fetcher) FanOut(ctx context.Context, window *int, match func(*task.Task) bool) []task.CategoryTask {
	categories := f.Categories(ctx)
	mapper := iter.Mapper[task.Category, []task.CategoryTask]{MaxGoroutines: f.fanOutLimit}
	blocks := mapper.Map(categories, func(c *task.Category) []task.CategoryTask {
		return degrade.Attempt[[]task.CategoryTask](ctx, "fan_out", nil, func(ctx context.Context) ([]task.CategoryTask, error) {
			var matches []task.CategoryTask
			for _, t := range f.CategoryTasks(ctx, c.ID, window) {
				if match(t) {
					matches = append(matches, task.CategoryTask{Category: c.Name, Task: t})
				}
			}
			return matches, nil
		}, slog.Int64("category_id", c.ID))
	})

	out := []task.CategoryTask{}
	for _, block := range blocks {
		out = append(out, block...)
	}
	return out
}

// Search matches query, ignoring case, against the task id, subject and assignee.
func (f *Fetcher) Search(ctx context.Context, query string, window *int) []task.CategoryTask {
	q := strings.ToLower(query)
	return f.FanOut(ctx, window, func(t *task.Task) bool {
		return strings.Contains(strconv.FormatInt(t.ID, 10), q) ||
			strings.Contains(strings.ToLower(t.Subject), q) ||
			strings.Contains(strings.ToLower(t.Assignee), q)
	})
}

func (f *Fetcher) Blocked(ctx context.Context) []task.CategoryTask {
	return f.FanOut(ctx, task.Window(task.DefaultWindowDays), func(t *task.Task) bool {
		return task.IsBlocked(t.Status)
	})
}

func (f *Fetcher) Overdue(ctx context.Context) []task.CategoryTask {
	return f.FanOut(ctx, task.Window(task.DefaultWindowDays), (*task.Task).IsOverdue)
}

// FindTask returns the first task with id across all categories.
func (f *Fetcher) FindTask(ctx context.Context, id int64, window *int) (task.CategoryTask, bool) {
	hits := f.FanOut(ctx, window, func(t *task.Task) bool {
		return t.ID == id
	})
	if len(hits) == 0 {
		return task.CategoryTask{}, false
	}
	return hits[0], true
}
