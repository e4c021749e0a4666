// Package taskmaster is an HTTP client for the Taskmaster task-management API.
package taskmaster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kazz187/taskdigest/internal/task"
	"github.com/kazz187/taskdigest/pkg/metrics"
)

const (
	endpointCategories = "GetAllCategories"
	endpointTasks      = "GetCategoryTasks"
	endpointFollowUps  = "GetTaskFollowUpHistory"

	maxResponseBytes = 32 << 20
)

type Config struct {
	BaseURL string
	// APIKey is sent as a bearer token when not empty.
	APIKey string

	CategoriesTimeout time.Duration
	TasksTimeout      time.Duration
	FollowUpTimeout   time.Duration
	FollowUpPageSize  int
}

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.CategoriesTimeout <= 0 {
		cfg.CategoriesTimeout = 30 * time.Second
	}
	if cfg.TasksTimeout <= 0 {
		cfg.TasksTimeout = 60 * time.Second
	}
	if cfg.FollowUpTimeout <= 0 {
		cfg.FollowUpTimeout = 10 * time.Second
	}
	if cfg.FollowUpPageSize <= 0 {
		cfg.FollowUpPageSize = 20
	}
	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories lists every category. Records without an id or a name are dropped.
func (c *Client) Categories(ctx context.Context) ([]task.Category, error) {
	body, err := c.do(ctx, c.cfg.CategoriesTimeout, endpointCategories, http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeCategories(body)
}

// CategoryTasks lists the tasks of one category without comments.
func (c *Client) CategoryTasks(ctx context.Context, categoryID int64) ([]*task.Task, error) {
	query := url.Values{"CategoryId": {strconv.FormatInt(categoryID, 10)}}
	body, err := c.do(ctx, c.cfg.TasksTimeout, endpointTasks, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeTasks(body)
}

type followUpRequest struct {
	TaskID   int64 `json:"TaskId"`
	PageSize int   `json:"PageSize"`
}

// FollowUps returns the first page of a task's follow-up history, unfiltered.
func (c *Client) FollowUps(ctx context.Context, taskID int64) ([]task.CommentRecord, error) {
	payload, err := json.Marshal(followUpRequest{TaskID: taskID, PageSize: c.cfg.FollowUpPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to encode follow-up request: %w", err)
	}
	body, err := c.do(ctx, c.cfg.FollowUpTimeout, endpointFollowUps, http.MethodPost, nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeFollowUps(body)
}

func (c *Client) do(ctx context.Context, timeout time.Duration, endpoint, method string, query url.Values, payload []byte) (_ []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordUpstreamRequest(endpoint, outcome, time.Since(start).Seconds())
	}()

	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	return body, nil
}

// StatusError reports a non-2xx Taskmaster response.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}
