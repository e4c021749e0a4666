// Package newsletter builds per-user digests of subscribed categories and
// archives them.
package newsletter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskdigest/internal/report"
	"github.com/kazz187/taskdigest/internal/subscription"
	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/pkg/cerr"
)

const NoSubscriptionsMessage = "User has no subscriptions"

// Source provides category data. It never fails; failures surface as empty results.
type Source interface {
	Categories(ctx context.Context) []task.Category
	CategoryTasks(ctx context.Context, categoryID int64, window *int) []*task.Task
}

type Service struct {
	source        Source
	subscriptions subscription.Repository
	repo          Repository
	now           func() time.Time
}

func NewService(source Source, subscriptions subscription.Repository, repo Repository) *Service {
	return &Service{
		source:        source,
		subscriptions: subscriptions,
		repo:          repo,
		now:           time.Now,
	}
}

func categoryName(categories []task.Category, id int64) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return fmt.Sprintf("Category %d", id)
}

// WeeklySummary renders the last seven days of one category.
func (s *Service) WeeklySummary(ctx context.Context, categoryID int64) string {
	name := categoryName(s.source.Categories(ctx), categoryID)
	window := task.Window(task.DefaultWindowDays)
	return report.Digest(name, window, s.source.CategoryTasks(ctx, categoryID, window), report.DetailShort)
}

// Preview builds the weekly summary of every category the user subscribes
// to, in subscription order. A user without subscriptions gets no sections.
func (s *Service) Preview(ctx context.Context, email string) (*Preview, error) {
	ids, err := s.subscriptions.ListCategoryIDs(ctx, email)
	if err != nil {
		return nil, err
	}
	preview := &Preview{UserEmail: email, Sections: []Section{}}
	if len(ids) == 0 {
		return preview, nil
	}

	categories := s.source.Categories(ctx)
	window := task.Window(task.DefaultWindowDays)
	for _, id := range ids {
		name := categoryName(categories, id)
		preview.Sections = append(preview.Sections, Section{
			CategoryID:   id,
			CategoryName: name,
			Summary:      report.Digest(name, window, s.source.CategoryTasks(ctx, id, window), report.DetailShort),
		})
	}
	return preview, nil
}

// Save renders the preview as markdown and archives it.
func (s *Service) Save(ctx context.Context, email string) (*Issue, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	preview, err := s.Preview(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(preview.Sections) == 0 {
		return nil, cerr.NewError(cerr.FailedPrecondition, NoSubscriptionsMessage, nil)
	}
	now := s.now()
	issue := &Issue{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserEmail: email,
		CreatedAt: now.UTC(),
		Body:      preview.Markdown(),
	}
	if err := s.repo.Save(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *Service) Issues(ctx context.Context, email string) ([]string, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, email)
}

func (s *Service) Issue(ctx context.Context, email, id string) (*Issue, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid newsletter id", err)
	}
	return s.repo.Get(ctx, email, id)
}

// validateEmail rejects addresses that cannot be used as an archive directory.
func validateEmail(email string) error {
	if email == "" || strings.ContainsAny(email, `/\`) || strings.Contains(email, "..") {
		return cerr.NewError(cerr.InvalidArgument, "invalid user email", nil)
	}
	return nil
}
