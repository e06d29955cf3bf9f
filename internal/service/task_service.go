package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id int64) (model.Task, error)
	ListByUser(ctx context.Context, userID int64, status model.TaskStatus) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id int64) error
}

// TaskService scopes every operation to the calling user. A task that exists
// but belongs to someone else is reported as forbidden, not as missing.
type TaskService struct {
	tasks TaskStore
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

// List returns the user's tasks. rawStatus is matched case-insensitively; an
// empty value disables the filter.
func (s *TaskService) List(ctx context.Context, userID int64, rawStatus string) ([]model.Task, error) {
	var status model.TaskStatus
	if strings.TrimSpace(rawStatus) != "" {
		parsed, err := model.ParseTaskStatus(rawStatus)
		if err != nil {
			slog.Warn("invalid status filter", "status", rawStatus)
			return nil, apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST",
				fmt.Sprintf("Invalid status: %s. Valid values are: PENDING, COMPLETED", rawStatus),
				"Invalid parameter value provided", http.StatusBadRequest)
		}
		status = parsed
	}

	return s.tasks.ListByUser(ctx, userID, status)
}

func (s *TaskService) Get(ctx context.Context, userID int64, id int64) (model.Task, error) {
	return s.owned(ctx, userID, id)
}

func (s *TaskService) Create(ctx context.Context, userID int64, req model.TaskCreateRequest) (model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Status == "" {
		req.Status = model.TaskStatusPending
	}
	if err := req.Validate(); err != nil {
		return model.Task{}, validationFailed(err)
	}

	task := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		UserID:      userID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return model.Task{}, err
	}

	slog.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// Update applies only the fields present in req.
func (s *TaskService) Update(ctx context.Context, userID int64, id int64, req model.TaskUpdateRequest) (model.Task, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := req.Validate(); err != nil {
		return model.Task{}, validationFailed(err)
	}

	task, err := s.owned(ctx, userID, id)
	if err != nil {
		return model.Task{}, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, s.mapMissing(err, id)
	}

	slog.Info("task updated", "task_id", id, "user_id", userID)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID int64, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.mapMissing(err, id)
	}

	slog.Info("task deleted", "task_id", id, "user_id", userID)
	return nil
}

func (s *TaskService) owned(ctx context.Context, userID int64, id int64) (model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return model.Task{}, s.mapMissing(err, id)
	}

	if task.UserID != userID {
		slog.Warn("task access by non-owner", "task_id", id, "user_id", userID)
		return model.Task{}, apierror.Wrap(model.ErrForbidden, "FORBIDDEN",
			fmt.Sprintf("Unauthorized access to task with id: %d", id),
			"You do not have permission to access this task", http.StatusForbidden)
	}

	return task, nil
}

func (s *TaskService) mapMissing(err error, id int64) error {
	if errors.Is(err, model.ErrTaskNotFound) {
		return apierror.Wrap(model.ErrTaskNotFound, "NOT_FOUND",
			fmt.Sprintf("Task not found with id: %d", id),
			"The requested task does not exist", http.StatusNotFound)
	}
	return err
}
