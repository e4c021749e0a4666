package taskmaster

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdigest/internal/task"
)

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/GetAllCategories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"TaskCategoryId": 3, "TaskCategoryName": "Billing"}]`))
	})
	mux.HandleFunc("GET /api/GetCategoryTasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("CategoryId"))
		_, _ = w.Write([]byte(`{"tasks": [{"TaskId": 1, "SubjectLine": "Fix invoice", "LastStatusCode": "Open"}]}`))
	})
	mux.HandleFunc("POST /api/GetTaskFollowUpHistory", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req followUpRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, followUpRequest{TaskID: 1, PageSize: 20}, req)
		_, _ = w.Write([]byte(`{"Data": {"FollowUpHistoryDetails": [{"TaskFollowUpComments": "need review", "FollowUpDate": "2025-03-07T10:00:00"}]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/api/", APIKey: "secret"})
	ctx := context.Background()

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []task.Category{{ID: 3, Name: "Billing"}}, categories)

	tasks, err := c.CategoryTasks(ctx, 3)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix invoice", tasks[0].Subject)

	records, err := c.FollowUps(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []task.CommentRecord{{Text: "need review", Timestamp: "2025-03-07T10:00:00"}}, records)
}

func TestClient_Errors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(Config{BaseURL: srv.URL}).Categories(context.Background())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Equal(t, endpointCategories, statusErr.Endpoint)
	})

	t.Run("no auth header without key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		categories, err := NewClient(Config{BaseURL: srv.URL}).Categories(context.Background())
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := NewClient(Config{BaseURL: srv.URL, FollowUpTimeout: 20 * time.Millisecond})
		_, err := c.FollowUps(context.Background(), 1)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer srv.Close()

		_, err := NewClient(Config{BaseURL: srv.URL}).CategoryTasks(context.Background(), 1)
		assert.Error(t, err)
	})
}
