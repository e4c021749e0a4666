package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdigest/internal/aggregator"
	"github.com/kazz187/taskdigest/internal/newsletter"
	newsletterrepo "github.com/kazz187/taskdigest/internal/newsletter/repositoryimpl"
	subscriptionrepo "github.com/kazz187/taskdigest/internal/subscription/repositoryimpl"
	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/internal/taskmaster"
	"github.com/kazz187/taskdigest/pkg/cerr"
	"github.com/kazz187/taskdigest/pkg/storage"
)

const billingDigest = "### Provider: invoice - Summary (last 7 days)\n" +
	"- [PNDG] **Fix invoice urgent** (Open)\n" +
	"  *Latest update:* urgent escalation\n" +
	"- [PNDG] **Fix invoice** (Open)\n" +
	"  *Latest update:* need review"

// newTaskmaster serves two categories. Billing holds two open invoice tasks,
// Claims holds one blocked and overdue task whose only comment is a month old.
func newTaskmaster(t *testing.T) *httptest.Server {
	t.Helper()
	recent := time.Now().UTC().Add(-time.Hour).Format("2006-01-02T15:04:05")
	old := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02T15:04:05")
	followUps := map[int64][][2]string{
		1: {{"need review", recent}},
		2: {{"urgent escalation", recent}, {"need review", recent}},
		7: {{"waiting on provider", old}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/GetAllCategories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Data": [{"TaskCategoryId": 3, "TaskCategoryName": "Billing"}, {"TaskCategoryId": 4, "TaskCategoryName": "Claims"}]}`))
	})
	mux.HandleFunc("GET /api/GetCategoryTasks", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("CategoryId") {
		case "3":
			_, _ = w.Write([]byte(`[
				{"TaskId": 1, "SubjectLine": "Fix invoice", "LastStatusCode": "Open"},
				{"TaskId": 2, "SubjectLine": "Fix invoice urgent", "LastStatusCode": "Open"}
			]`))
		case "4":
			_, _ = w.Write([]byte(`[{"TaskId": 7, "SubjectLine": "Review claim", "LastStatusCode": "On Hold", "TaskAssignedtoName": "Smith", "DaysOverdue": 3}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	})
	mux.HandleFunc("POST /api/GetTaskFollowUpHistory", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ TaskId int64 }
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		var records []map[string]string
		for _, f := range followUps[req.TaskId] {
			records = append(records, map[string]string{"TaskFollowUpComments": f[0], "FollowUpDate": f[1]})
		}
		assert.NoError(t, json.NewEncoder(w).Encode(map[string]any{"Data": records}))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	srv := newTaskmaster(t)
	ctx := context.Background()

	fetcher := aggregator.NewFetcher(
		taskmaster.NewClient(taskmaster.Config{BaseURL: srv.URL + "/api"}),
		aggregator.Config{},
	)
	subs, err := subscriptionrepo.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = subs.Close() })
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	newsletters := newsletter.NewService(fetcher, subs, newsletterrepo.NewStorageRepository(local))
	return NewService(fetcher, subs, newsletters)
}

func TestResolveWindow(t *testing.T) {
	assert.Equal(t, 7, *resolveWindow(nil, weekly()))
	assert.Nil(t, resolveWindow(nil, nil))
	assert.Nil(t, resolveWindow(task.Window(0), weekly()))
	assert.Nil(t, resolveWindow(task.Window(-3), weekly()))
	assert.Equal(t, 30, *resolveWindow(task.Window(30), nil))
}

func TestService_Queries(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, []task.Category{{ID: 3, Name: "Billing"}, {ID: 4, Name: "Claims"}}, s.Categories(ctx))

	tasks := s.CategoryTasks(ctx, 4, nil)
	require.Len(t, tasks, 1)
	assert.Empty(t, tasks[0].Comments)
	tasks = s.CategoryTasks(ctx, 4, task.Window(0))
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"waiting on provider"}, tasks[0].Comments)
	tasks = s.CategoryTasks(ctx, 4, task.Window(-5))
	require.Len(t, tasks, 1)
	assert.Equal(t, []string{"waiting on provider"}, tasks[0].Comments, "negative window means all time")

	hits, err := s.SearchTasks(ctx, "smith", nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Claims", hits[0].Category)
	assert.Equal(t, int64(7), hits[0].Task.ID)

	_, err = s.SearchTasks(ctx, "  ", nil)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))

	blocked := s.BlockedTasks(ctx)
	require.Len(t, blocked, 1)
	assert.Equal(t, "Review claim", blocked[0].Task.Subject)
	overdue := s.OverdueTasks(ctx)
	require.Len(t, overdue, 1)
	assert.Equal(t, 3, overdue[0].Task.DaysOverdue)
}

func TestService_ProviderUpdates(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	got, err := s.ProviderUpdates(ctx, "invoice", "short", nil)
	require.NoError(t, err)
	assert.Equal(t, billingDigest, got)

	got, err = s.ProviderUpdates(ctx, "nobody", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "No tasks or updates found for provider 'nobody'.", got)

	_, err = s.ProviderUpdates(ctx, "", "", nil)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
}

func TestService_TaskSummary(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// No window by default, so the month-old comment is included.
	got := s.TaskSummary(ctx, 7, "detailed", nil)
	assert.Equal(t, "- [PNDG] **Review claim** (On Hold)\n  1. waiting on provider", got)

	got = s.TaskSummary(ctx, 7, "detailed", task.Window(7))
	assert.Equal(t, "- [PNDG] **Review claim** (On Hold)", got)

	assert.Equal(t, "Task 404 not found.", s.TaskSummary(ctx, 404, "", nil))
}

func TestService_SubscriptionsAndNewsletters(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	const email = "ops@example.com"

	preview, err := s.PreviewNewsletter(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, &MessageResult{Message: newsletter.NoSubscriptionsMessage}, preview)

	_, err = s.SaveNewsletter(ctx, email)
	assert.True(t, cerr.IsCode(err, cerr.FailedPrecondition))

	_, err = s.Subscribe(ctx, email, 99)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
	_, err = s.Subscribe(ctx, "", 3)
	assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))

	res, err := s.Subscribe(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, "success", res.Status)
	_, err = s.Subscribe(ctx, email, 3)
	require.NoError(t, err)

	subs, err := s.ListSubscriptions(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, []task.Category{{ID: 3, Name: "Billing"}}, subs)

	preview, err = s.PreviewNewsletter(ctx, email)
	require.NoError(t, err)
	p, ok := preview.(*newsletter.Preview)
	require.True(t, ok, "got %T", preview)
	require.Len(t, p.Sections, 1)
	assert.Equal(t, "Billing", p.Sections[0].CategoryName)
	assert.True(t, strings.HasPrefix(p.Sections[0].Summary, "### Billing - Summary (last 7 days)\n"))

	issue, err := s.SaveNewsletter(ctx, email)
	require.NoError(t, err)
	ids, err := s.ListNewsletters(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, []string{issue.ID}, ids)
	got, err := s.GetNewsletter(ctx, email, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, issue.Body, got.Body)

	res, err = s.Unsubscribe(ctx, email, 3)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Unsubscribed %s from category 3", email), res.Message)
	subs, err = s.ListSubscriptions(ctx, email)
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = s.Unsubscribe(ctx, "stranger@example.com", 3)
	assert.NoError(t, err)
}
