package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-task-tracker/internal/middleware"
	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

type taskService interface {
	List(ctx context.Context, userID int64, rawStatus string) ([]model.Task, error)
	Get(ctx context.Context, userID int64, id int64) (model.Task, error)
	Create(ctx context.Context, userID int64, req model.TaskCreateRequest) (model.Task, error)
	Update(ctx context.Context, userID int64, id int64, req model.TaskUpdateRequest) (model.Task, error)
	Delete(ctx context.Context, userID int64, id int64) error
}

type TaskHandler struct {
	service taskService
}

func NewTaskHandler(service taskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), user.ID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var payload model.TaskCreateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), user.ID, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+strconv.FormatInt(task.ID, 10))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var payload model.TaskUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), user.ID, id, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func currentUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED",
			"Full authentication is required to access this resource", "", http.StatusUnauthorized))
	}
	return user, ok
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST",
			"Invalid task id: "+raw, "Invalid parameter value provided", http.StatusBadRequest))
		return 0, false
	}
	return id, true
}
