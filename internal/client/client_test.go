package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Call(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.Header.Get("X-API-Key"))
		switch r.URL.Path {
		case "/tools/subscribe_category":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "3", r.URL.Query().Get("category_id"))
			_, _ = w.Write([]byte(`{"status":"success","message":"ok"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":"invalid_argument","message":"query is required"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "k")
	ctx := context.Background()

	got, err := c.Call(ctx, http.MethodPost, "subscribe_category", url.Values{
		"user_email":  {"ops@example.com"},
		"category_id": {"3"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","message":"ok"}`, string(got))

	_, err = c.Call(ctx, http.MethodGet, "search_tasks", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_argument: query is required", apiErr.Error())
}
