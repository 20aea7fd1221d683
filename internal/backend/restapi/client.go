// Package restapi implements service.Service against the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskctl/internal/config"
	"taskctl/internal/logging"
	"taskctl/internal/service"
)

const (
	// TasksPath is the collection endpoint.
	TasksPath = "/api/tasks/"

	// CSRFCookie holds the token echoed on mutating calls.
	CSRFCookie = "csrftoken"

	// CSRFHeader carries the CSRF token.
	CSRFHeader = "X-CSRFToken"

	// RequestIDHeader tags each request for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// Client implements service.Service and service.Authenticator over HTTP.
type Client struct {
	base        *url.URL
	http        *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	token       string
	sessionPath string
}

var (
	_ service.Service       = (*Client)(nil)
	_ service.Authenticator = (*Client)(nil)
)

// New creates a client for cfg.BaseURL. A stored session is loaded when
// present; with cfg.Token set, requests carry a bearer token instead.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	jar, err := newJar()
	if err != nil {
		return nil, err
	}

	var httpClient *http.Client
	if cfg.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(ctx, src)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Jar = jar

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	c := &Client{
		base:        base,
		http:        httpClient,
		logger:      logger,
		timeout:     timeout,
		token:       cfg.Token,
		sessionPath: cfg.SessionPath(),
	}

	if err := c.loadSession(); err != nil {
		return nil, err
	}
	return c, nil
}

// HasCredentials reports whether requests will be authenticated.
func (c *Client) HasCredentials() bool {
	return c.token != "" || c.cookie(SessionCookie) != ""
}

// ListTasks implements service.Service.
// The server may answer with a bare array or a paginated envelope.
func (c *Client) ListTasks(ctx context.Context, params service.ListParams) ([]service.Task, error) {
	data, err := c.do(ctx, http.MethodGet, TasksPath+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return decodeTaskList(data)
}

// GetTask implements service.Service.
func (c *Client) GetTask(ctx context.Context, id service.TaskID) (service.Task, error) {
	data, err := c.do(ctx, http.MethodGet, itemPath(id), nil)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(data)
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	data, err := c.do(ctx, http.MethodPost, TasksPath, in)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(data)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, in service.TaskInput) (service.Task, error) {
	data, err := c.do(ctx, http.MethodPut, itemPath(id), in)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(data)
}

// DeleteTask implements service.Service. Any 2xx, including 204, is success.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

// ToggleFavorite implements service.Service.
func (c *Client) ToggleFavorite(ctx context.Context, id service.TaskID) (service.FavoriteState, error) {
	data, err := c.do(ctx, http.MethodPost, itemPath(id)+"toggle-favorite/", nil)
	if err != nil {
		return service.FavoriteState{}, err
	}

	var st service.FavoriteState
	if len(bytes.TrimSpace(data)) == 0 {
		return service.FavoriteState{ID: id}, nil
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return service.FavoriteState{}, fmt.Errorf("invalid toggle response: %w", err)
	}
	return st, nil
}

func itemPath(id service.TaskID) string {
	return TasksPath + url.PathEscape(id.String()) + "/"
}

func (c *Client) resolve(path string) string {
	return strings.TrimRight(c.base.String(), "/") + path
}

// do performs one JSON request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && method != http.MethodHead {
		c.setCSRF(req)
	}

	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return data, nil
}

// setCSRF echoes the CSRF cookie in the request header. The Referer is
// required by servers that check it on HTTPS.
func (c *Client) setCSRF(req *http.Request) {
	if token := c.cookie(CSRFCookie); token != "" {
		req.Header.Set(CSRFHeader, token)
	}
	req.Header.Set("Referer", c.resolve("/"))
}

func decodeTask(data []byte) (service.Task, error) {
	var t service.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return service.Task{}, fmt.Errorf("invalid task response: %w", err)
	}
	return t, nil
}

// decodeTaskList accepts a bare array or an object with a results array.
// A results field that is not an array yields an empty list.
func decodeTaskList(data []byte) ([]service.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("invalid task list response: empty body")
	}

	if data[0] == '[' {
		var tasks []service.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("invalid task list response: %w", err)
		}
		return tasks, nil
	}

	var page struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("invalid task list response: %w", err)
	}

	results := bytes.TrimSpace(page.Results)
	if len(results) == 0 || results[0] != '[' {
		return []service.Task{}, nil
	}

	var tasks []service.Task
	if err := json.Unmarshal(results, &tasks); err != nil {
		return nil, fmt.Errorf("invalid task list response: %w", err)
	}
	return tasks, nil
}
