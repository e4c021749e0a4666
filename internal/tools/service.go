// Package tools exposes the digest operations as named tools shared by the
// REST, MCP and CLI front ends.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kazz187/taskdigest/internal/aggregator"
	"github.com/kazz187/taskdigest/internal/newsletter"
	"github.com/kazz187/taskdigest/internal/report"
	"github.com/kazz187/taskdigest/internal/subscription"
	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/pkg/cerr"
)

type Service struct {
	fetcher       *aggregator.Fetcher
	subscriptions subscription.Repository
	newsletters   *newsletter.Service
}

func NewService(fetcher *aggregator.Fetcher, subscriptions subscription.Repository, newsletters *newsletter.Service) *Service {
	return &Service{
		fetcher:       fetcher,
		subscriptions: subscriptions,
		newsletters:   newsletters,
	}
}

// resolveWindow applies an operation default to an optional window. Zero or
// a negative value disables the window.
func resolveWindow(in *int, def *int) *int {
	if in == nil {
		return def
	}
	if *in <= 0 {
		return nil
	}
	return task.Window(*in)
}

func weekly() *int {
	return task.Window(task.DefaultWindowDays)
}

type StatusResult struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

type MessageResult struct {
	Message string `json:"message" yaml:"message"`
}

func (s *Service) Categories(ctx context.Context) []task.Category {
	return s.fetcher.Categories(ctx)
}

func (s *Service) CategoryTasks(ctx context.Context, categoryID int64, windowDays *int) []*task.Task {
	return s.fetcher.CategoryTasks(ctx, categoryID, resolveWindow(windowDays, weekly()))
}

func (s *Service) SearchTasks(ctx context.Context, query string, windowDays *int) ([]task.CategoryTask, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "query is required", nil)
	}
	return s.fetcher.Search(ctx, query, resolveWindow(windowDays, weekly())), nil
}

func (s *Service) ProviderUpdates(ctx context.Context, alias, detail string, windowDays *int) (string, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return "", cerr.NewError(cerr.InvalidArgument, "provider alias is required", nil)
	}
	window := resolveWindow(windowDays, weekly())
	hits := s.fetcher.Search(ctx, alias, window)
	if len(hits) == 0 {
		return fmt.Sprintf("No tasks or updates found for provider '%s'.", alias), nil
	}
	tasks := make([]*task.Task, len(hits))
	for i, h := range hits {
		tasks[i] = h.Task
	}
	return report.Digest("Provider: "+alias, window, tasks, report.ParseDetail(detail)), nil
}

// TaskSummary renders one task. Without a window every comment is shown.
func (s *Service) TaskSummary(ctx context.Context, taskID int64, detail string, windowDays *int) string {
	hit, ok := s.fetcher.FindTask(ctx, taskID, resolveWindow(windowDays, nil))
	if !ok {
		return fmt.Sprintf("Task %d not found.", taskID)
	}
	return report.TaskSummary(hit.Task, report.ParseDetail(detail))
}

func (s *Service) BlockedTasks(ctx context.Context) []task.CategoryTask {
	return s.fetcher.Blocked(ctx)
}

func (s *Service) OverdueTasks(ctx context.Context) []task.CategoryTask {
	return s.fetcher.Overdue(ctx)
}

func (s *Service) WeeklySummary(ctx context.Context, categoryID int64) string {
	return s.newsletters.WeeklySummary(ctx, categoryID)
}

// ListSubscriptions returns the user's categories; ids no longer known
// upstream are named "Unknown".
func (s *Service) ListSubscriptions(ctx context.Context, email string) ([]task.Category, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	ids, err := s.subscriptions.ListCategoryIDs(ctx, email)
	if err != nil {
		return nil, err
	}
	out := make([]task.Category, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	names := make(map[int64]string)
	for _, c := range s.fetcher.Categories(ctx) {
		names[c.ID] = c.Name
	}
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = "Unknown"
		}
		out = append(out, task.Category{ID: id, Name: name})
	}
	return out, nil
}

// Subscribe checks categoryID against the live category list before writing.
func (s *Service) Subscribe(ctx context.Context, email string, categoryID int64) (*StatusResult, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	if _, ok := s.fetcher.Category(ctx, categoryID); !ok {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid category id", nil)
	}
	if err := s.subscriptions.Subscribe(ctx, email, categoryID); err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  "success",
		Message: fmt.Sprintf("Subscribed %s to category %d", email, categoryID),
	}, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string, categoryID int64) (*StatusResult, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	if err := s.subscriptions.Unsubscribe(ctx, email, categoryID); err != nil {
		return nil, err
	}
	return &StatusResult{
		Status:  "success",
		Message: fmt.Sprintf("Unsubscribed %s from category %d", email, categoryID),
	}, nil
}

// PreviewNewsletter returns a *newsletter.Preview, or a MessageResult when
// the user has no subscriptions.
func (s *Service) PreviewNewsletter(ctx context.Context, email string) (any, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	preview, err := s.newsletters.Preview(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(preview.Sections) == 0 {
		return &MessageResult{Message: newsletter.NoSubscriptionsMessage}, nil
	}
	return preview, nil
}

func (s *Service) SaveNewsletter(ctx context.Context, email string) (*newsletter.Issue, error) {
	return s.newsletters.Save(ctx, email)
}

func (s *Service) ListNewsletters(ctx context.Context, email string) ([]string, error) {
	return s.newsletters.Issues(ctx, email)
}

func (s *Service) GetNewsletter(ctx context.Context, email, id string) (*newsletter.Issue, error) {
	return s.newsletters.Issue(ctx, email, id)
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return cerr.NewError(cerr.InvalidArgument, "user email is required", nil)
	}
	return nil
}
