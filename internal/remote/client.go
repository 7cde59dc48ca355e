package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskmirror/internal/task"
	"taskmirror/pkg/cerr"
	"taskmirror/pkg/clog"
)

const defaultTimeout = 30 * time.Second

// Client talks to the remote task service, the system of record for
// projects and tasks. Every failure leaves the client as a classified
// cerr.Error: Network when no response arrived, Rejected on a non-success
// status, Malformed on an undecodable success body.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: &clog.Transport{},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type statusUpdateRequest struct {
	Status task.Status `json:"status"`
}

// errorBody is the service's optional error payload.
type errorBody struct {
	Detail string `json:"detail"`
}

// GenerateProject asks the service to decompose prompt into a new project
// plan.
func (c *Client) GenerateProject(ctx context.Context, prompt string) (*task.Project, error) {
	var p task.Project
	if err := c.do(ctx, http.MethodPost, "/projects/generate", generateRequest{Prompt: prompt}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateTaskStatus asks the service to move the task to status. The
// returned task is the service's view after the update.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), statusUpdateRequest{Status: status}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ProjectTasks fetches the current state of a project and all its tasks.
func (c *Client) ProjectTasks(ctx context.Context, projectID string) (*task.Project, error) {
	var p task.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/tasks", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return cerr.NewError(cerr.Unknown, "failed to encode request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return cerr.NewError(cerr.Unknown, "failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cerr.Wrap(err, cerr.Network, "remote task service unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return cerr.Wrap(err, cerr.Network, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("remote task service returned %s", resp.Status)
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Detail != "" {
			msg = eb.Detail
		}
		return cerr.NewError(cerr.Rejected, msg, nil)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return cerr.NewError(cerr.Malformed, "undecodable response body", err)
		}
	}
	return nil
}
