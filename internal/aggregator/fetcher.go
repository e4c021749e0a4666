// Package aggregator pulls categories and tasks from Taskmaster through a TTL
// cache and runs queries across every category.
package aggregator

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/pkg/degrade"
	"github.com/kazz187/taskdigest/pkg/ttlcache"
)

const (
	categoriesKey = "categories"

	DefaultCacheTTL    = 5 * time.Minute
	DefaultFanOutLimit = 5
	DefaultEnrichLimit = 20
)

// Upstream is the subset of the Taskmaster API the fetcher needs.
type Upstream interface {
	Categories(ctx context.Context) ([]task.Category, error)
	CategoryTasks(ctx context.Context, categoryID int64) ([]*task.Task, error)
	FollowUps(ctx context.Context, taskID int64) ([]task.CommentRecord, error)
}

type Config struct {
	CacheTTL    time.Duration
	FanOutLimit int
	EnrichLimit int
	// Location is used for follow-up timestamps without an offset.
	Location *time.Location
	Clock    ttlcache.Clock
}

// Fetcher returns cached Taskmaster data. Any failure is logged and reported
// to the caller as an empty result; failed fetches are not cached.
//
// Returned tasks are shared with the cache and must not be modified.
type Fetcher struct {
	upstream    Upstream
	clock       ttlcache.Clock
	loc         *time.Location
	fanOutLimit int
	enrichLimit int

	categories *ttlcache.Cache[[]task.Category]
	tasks      *ttlcache.Cache[[]*task.Task]
}

func NewFetcher(upstream Upstream, cfg Config) *Fetcher {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.FanOutLimit <= 0 {
		cfg.FanOutLimit = DefaultFanOutLimit
	}
	if cfg.EnrichLimit <= 0 {
		cfg.EnrichLimit = DefaultEnrichLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = ttlcache.SystemClock()
	}
	return &Fetcher{
		upstream:    upstream,
		clock:       cfg.Clock,
		loc:         cfg.Location,
		fanOutLimit: cfg.FanOutLimit,
		enrichLimit: cfg.EnrichLimit,
		categories:  ttlcache.New[[]task.Category]("categories", cfg.CacheTTL, ttlcache.WithClock(cfg.Clock)),
		tasks:       ttlcache.New[[]*task.Task]("tasks", cfg.CacheTTL, ttlcache.WithClock(cfg.Clock)),
	}
}

func (f *Fetcher) Categories(ctx context.Context) []task.Category {
	return degrade.Attempt(ctx, "categories", []task.Category{}, func(ctx context.Context) ([]task.Category, error) {
		return f.categories.GetOrLoad(ctx, categoriesKey, f.upstream.Categories)
	})
}

// Category looks up one category by id in the category list.
func (f *Fetcher) Category(ctx context.Context, categoryID int64) (task.Category, bool) {
	for _, c := range f.Categories(ctx) {
		if c.ID == categoryID {
			return c, true
		}
	}
	return task.Category{}, false
}

func tasksKey(categoryID int64, window *int) string {
	w := "all"
	if window != nil {
		w = strconv.Itoa(*window)
	}
	return "tasks:" + strconv.FormatInt(categoryID, 10) + ":" + w
}

// CategoryTasks returns the tasks of a category in upstream order, each with
// its follow-up comments filtered to window. A nil window keeps every comment.
func (f *Fetcher) CategoryTasks(ctx context.Context, categoryID int64, window *int) []*task.Task {
	return degrade.Attempt(ctx, "category_tasks", []*task.Task{}, func(ctx context.Context) ([]*task.Task, error) {
		return f.tasks.GetOrLoad(ctx, tasksKey(categoryID, window), func(ctx context.Context) ([]*task.Task, error) {
			tasks, err := f.upstream.CategoryTasks(ctx, categoryID)
			if err != nil {
				return nil, err
			}
			f.enrich(ctx, tasks, window)
			// Follow-ups swallowed after cancellation would be cached as empty.
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return tasks, nil
		})
	}, slog.Int64("category_id", categoryID))
}

// enrich attaches filtered comments to every task. A task whose history
// cannot be fetched keeps an empty comment list.
func (f *Fetcher) enrich(ctx context.Context, tasks []*task.Task, window *int) {
	now := f.clock.Now()
	p := pool.New().WithMaxGoroutines(f.enrichLimit)
	for _, t := range tasks {
		p.Go(func() {
			records := degrade.Attempt[[]task.CommentRecord](ctx, "follow_ups", nil, func(ctx context.Context) ([]task.CommentRecord, error) {
				return f.upstream.FollowUps(ctx, t.ID)
			}, slog.Int64("task_id", t.ID))
			t.Comments = task.FilterComments(records, window, now, f.loc)
		})
	}
	p.Wait()
}
