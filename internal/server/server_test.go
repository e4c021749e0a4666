package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdigest/internal/aggregator"
	"github.com/kazz187/taskdigest/internal/config"
	"github.com/kazz187/taskdigest/internal/taskmaster"
	"github.com/kazz187/taskdigest/internal/tools"
)

func newTestHandler(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	fetcher := aggregator.NewFetcher(taskmaster.NewClient(taskmaster.Config{BaseURL: upstream.URL}), aggregator.Config{})
	svc := tools.NewService(fetcher, nil, nil)
	env := &config.Env{BaseEnv: config.BaseEnv{APIKey: apiKey}}
	return NewServer(env, svc, tools.NewMCPServer(svc, "test")).Handler()
}

func get(h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_Routes(t *testing.T) {
	h := newTestHandler(t, "")

	rec := get(h, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())

	rec = get(h, "/tools/get_categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "failed upstream degrades to empty")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = get(h, "/tools/no_such_tool", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"code": "not_found", "message": "not found"}`, rec.Body.String())

	rec = get(h, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "taskdigest_degraded_fetches_total"))
}

func TestServer_APIKey(t *testing.T) {
	h := newTestHandler(t, "secret")

	assert.Equal(t, http.StatusUnauthorized, get(h, "/tools/get_categories", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		get(h, "/tools/get_categories", http.Header{"X-Api-Key": {"wrong"}}).Code)
	assert.Equal(t, http.StatusOK,
		get(h, "/tools/get_categories", http.Header{"X-Api-Key": {"secret"}}).Code)
	assert.Equal(t, http.StatusOK,
		get(h, "/tools/get_categories", http.Header{"Authorization": {"Bearer secret"}}).Code)
	assert.Equal(t, http.StatusOK, get(h, "/health", nil).Code)
}
