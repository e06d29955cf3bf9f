// Package apiclient talks to the task tracker HTTP API. Credentials are not
// handled here; they are added by the interceptor chain of the http.Client the
// caller supplies.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-task-tracker/internal/model"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return model.LoginResponse{}, err
	}

	if strings.TrimSpace(resp.Token) == "" {
		return model.LoginResponse{}, fmt.Errorf("%w: login response has no token", model.ErrTokenMalformed)
	}

	return resp, nil
}

// ListTasks returns every task of the signed-in user. An empty status means
// no filter.
func (c *Client) ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": []string{string(status)}}
	}

	tasks := []model.Task{}
	err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil, &tasks)
	return tasks, err
}

func (c *Client) GetTask(ctx context.Context, id int64) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, nil, &task)
	return task, err
}

func (c *Client) CreateTask(ctx context.Context, req model.TaskCreateRequest) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, req model.TaskUpdateRequest) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodPut, taskPath(id), nil, req, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: method, Path: path, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respErr := &ResponseError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			kind:       classify(resp.StatusCode),
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &respErr.Problem)
		}
		return respErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s response: %v", model.ErrServer, method, path, err)
	}

	return nil
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
