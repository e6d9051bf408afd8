// tasks.go covers the scheduled-task endpoints.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListTasks returns all scheduled tasks, optionally including disabled ones.
func (c *Client) ListTasks(ctx context.Context, includeDisabled bool) ([]Task, error) {
	q := url.Values{"include_disabled": {strconv.FormatBool(includeDisabled)}}

	var resp []Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTask fetches a task by id.
func (c *Client) GetTask(ctx context.Context, taskID int) (*Task, error) {
	var resp Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/"+strconv.Itoa(taskID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateTask registers a new scheduled task.
func (c *Client) CreateTask(ctx context.Context, t *Task) (*Task, error) {
	var resp Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/tasks/", nil, t, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask updates a scheduled task.
func (c *Client) UpdateTask(ctx context.Context, taskID int, t *Task) (*Task, error) {
	var resp Task
	if err := c.doJSON(ctx, http.MethodPut, "/api/tasks/"+strconv.Itoa(taskID), nil, t, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask removes a scheduled task.
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/tasks/"+strconv.Itoa(taskID), nil, nil, nil)
}

// EnableTask turns a task on.
func (c *Client) EnableTask(ctx context.Context, taskID int) error {
	return c.doJSON(ctx, http.MethodPost, "/api/tasks/"+strconv.Itoa(taskID)+"/enable", nil, nil, nil)
}

// DisableTask turns a task off.
func (c *Client) DisableTask(ctx context.Context, taskID int) error {
	return c.doJSON(ctx, http.MethodPost, "/api/tasks/"+strconv.Itoa(taskID)+"/disable", nil, nil, nil)
}

// TaskExecutions returns one page of execution records, optionally scoped to
// a single task.
func (c *Client) TaskExecutions(ctx context.Context, taskID, page, perPage int) (*TaskExecutionList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	q := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}
	if taskID > 0 {
		q.Set("task_id", strconv.Itoa(taskID))
	}

	var resp TaskExecutionList
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/executions", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TaskStats returns aggregate execution statistics.
func (c *Client) TaskStats(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// TaskTypes lists the known task types.
func (c *Client) TaskTypes(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/types", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
