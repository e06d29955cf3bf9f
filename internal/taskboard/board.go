// Package taskboard is the task list feature: it caches the last fetched
// list, filters it by status and turns every action's outcome into a user
// notification or a form error.
package taskboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go-task-tracker/internal/model"
)

type API interface {
	ListTasks(ctx context.Context, status model.TaskStatus) ([]model.Task, error)
	CreateTask(ctx context.Context, req model.TaskCreateRequest) (model.Task, error)
	UpdateTask(ctx context.Context, id int64, req model.TaskUpdateRequest) (model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Notifier interface {
	Success(message string, duration ...time.Duration) model.Notification
	Error(message string, duration ...time.Duration) model.Notification
}

type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterPending   Filter = Filter(model.TaskStatusPending)
	FilterCompleted Filter = Filter(model.TaskStatusCompleted)
)

func ParseFilter(raw string) (Filter, error) {
	switch Filter(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", model.ErrInvalidInput, raw)
}

// FormError is a failure meant to be shown next to the form that caused it
// rather than as a notification.
type FormError struct {
	Message string
	Err     error
}

func (e *FormError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FormError) Unwrap() error {
	return e.Err
}

type Board struct {
	api      API
	notifier Notifier

	mu      sync.RWMutex
	tasks   []model.Task
	filter  Filter
	loading bool
}

func New(api API, notifier Notifier) *Board {
	return &Board{api: api, notifier: notifier, filter: FilterAll}
}

// Load replaces the cache with the server's current list.
func (b *Board) Load(ctx context.Context) error {
	b.setLoading(true)
	defer b.setLoading(false)

	tasks, err := b.api.ListTasks(ctx, "")
	if err != nil {
		slog.Error("load tasks", "error", err)
		b.notifier.Error("Failed to load tasks. Please try again.")
		return err
	}

	b.mu.Lock()
	b.tasks = tasks
	b.mu.Unlock()

	return nil
}

func (b *Board) Tasks() []model.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Visible is the cached list narrowed by the current filter.
func (b *Board) Visible() []model.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Task, 0, len(b.tasks))
	for _, task := range b.tasks {
		if b.filter == FilterAll || Filter(task.Status) == b.filter {
			out = append(out, task)
		}
	}
	return out
}

func (b *Board) SetFilter(f Filter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filter = f
}

func (b *Board) Filter() Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.filter
}

func (b *Board) Counts() (pending int, completed int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, task := range b.tasks {
		switch task.Status {
		case model.TaskStatusPending:
			pending++
		case model.TaskStatusCompleted:
			completed++
		}
	}
	return pending, completed
}

func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.loading
}

// Create trims the input, refuses a blank title locally and reloads the list
// after the server accepts the task.
func (b *Board) Create(ctx context.Context, title string, description string, status model.TaskStatus) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, &FormError{Message: "Task title is required", Err: model.ErrInvalidInput}
	}
	if status == "" {
		status = model.TaskStatusPending
	}

	task, err := b.api.CreateTask(ctx, model.TaskCreateRequest{
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      status,
	})
	if err != nil {
		slog.Error("create task", "error", err)
		return model.Task{}, &FormError{Message: "Failed to create task. Please try again.", Err: err}
	}

	b.notifier.Success("Task created successfully!")
	_ = b.Load(ctx)
	return task, nil
}

// Update applies a partial change. A blank description is treated as "not
// provided", so an existing description cannot be cleared this way.
func (b *Board) Update(ctx context.Context, id int64, req model.TaskUpdateRequest) (model.Task, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.Task{}, &FormError{Message: "Task title is required", Err: model.ErrInvalidInput}
		}
		req.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			req.Description = nil
		} else {
			req.Description = &description
		}
	}

	task, err := b.api.UpdateTask(ctx, id, req)
	if err != nil {
		slog.Error("update task", "task_id", id, "error", err)
		return model.Task{}, &FormError{Message: "Failed to update task. Please try again.", Err: err}
	}

	b.notifier.Success("Task updated successfully!")
	_ = b.Load(ctx)
	return task, nil
}

func (b *Board) Delete(ctx context.Context, id int64) error {
	if err := b.api.DeleteTask(ctx, id); err != nil {
		slog.Error("delete task", "task_id", id, "error", err)
		b.notifier.Error("Failed to delete task. Please try again.")
		return err
	}

	b.notifier.Success("Task deleted successfully")
	_ = b.Load(ctx)
	return nil
}

// Toggle flips a cached task between PENDING and COMPLETED.
func (b *Board) Toggle(ctx context.Context, id int64) (model.Task, error) {
	current, ok := b.find(id)
	if !ok {
		if err := b.Load(ctx); err != nil {
			return model.Task{}, err
		}
		if current, ok = b.find(id); !ok {
			b.notifier.Error("Failed to update task status. Please try again.")
			return model.Task{}, fmt.Errorf("%w: task %d", model.ErrTaskNotFound, id)
		}
	}

	next := current.Status.Toggle()
	task, err := b.api.UpdateTask(ctx, id, model.TaskUpdateRequest{Status: &next})
	if err != nil {
		slog.Error("toggle task status", "task_id", id, "error", err)
		b.notifier.Error("Failed to update task status. Please try again.")
		return model.Task{}, err
	}

	if next == model.TaskStatusCompleted {
		b.notifier.Success("Task marked as completed!")
	} else {
		b.notifier.Success("Task marked as pending!")
	}
	_ = b.Load(ctx)
	return task, nil
}

func (b *Board) find(id int64) (model.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, task := range b.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func (b *Board) setLoading(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loading = v
}
