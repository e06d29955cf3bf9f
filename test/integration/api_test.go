//go:build integration

package integration

import (
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/internal/model"
)

func TestRegisterAndLogin(t *testing.T) {
	server := newServer(t)

	register(t, server.URL, "ana", "ana@example.com")

	dup := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", model.RegisterRequest{
		Username: "ana2", Email: "ana@example.com", Password: "secret1",
	})
	problem := decode[model.ProblemDetail](t, dup)
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	assert.Equal(t, "A user with this email/username already exists", problem.Description)
	assert.Equal(t, "/auth/register", problem.Instance)

	bad := doJSON(t, http.MethodPost, server.URL+"/auth/login", "", model.LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	problem = decode[model.ProblemDetail](t, bad)
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
	assert.Equal(t, "The username or password is incorrect", problem.Description)

	invalid := doJSON(t, http.MethodPost, server.URL+"/auth/register", "", model.RegisterRequest{Username: "x", Email: "nope", Password: "1"})
	problem = decode[model.ProblemDetail](t, invalid)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Equal(t, "Validation failed", problem.Detail)

	token := login(t, server.URL, "ana@example.com")
	assert.NotEmpty(t, token)
}

func TestTaskCRUDIsOwnerScoped(t *testing.T) {
	server := newServer(t)
	register(t, server.URL, "ana", "ana@example.com")
	register(t, server.URL, "bob", "bob@example.com")
	ana := login(t, server.URL, "ana@example.com")
	bob := login(t, server.URL, "bob@example.com")

	unauth := doJSON(t, http.MethodGet, server.URL+"/api/tasks", "", nil)
	_ = unauth.Body.Close()
	require.Equal(t, http.StatusUnauthorized, unauth.StatusCode)

	forged := doJSON(t, http.MethodGet, server.URL+"/api/tasks", "not-a-token", nil)
	_ = forged.Body.Close()
	require.Equal(t, http.StatusForbidden, forged.StatusCode)

	created := doJSON(t, http.MethodPost, server.URL+"/api/tasks", ana, model.TaskCreateRequest{Title: "Buy milk"})
	require.Equal(t, http.StatusCreated, created.StatusCode)
	task := decode[model.Task](t, created)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, "/api/tasks/"+strconv.FormatInt(task.ID, 10), created.Header.Get("Location"))

	taskURL := server.URL + "/api/tasks/" + strconv.FormatInt(task.ID, 10)

	other := doJSON(t, http.MethodGet, taskURL, bob, nil)
	problem := decode[model.ProblemDetail](t, other)
	assert.Equal(t, http.StatusForbidden, other.StatusCode)
	assert.Equal(t, "You do not have permission to access this task", problem.Description)

	completed := model.TaskStatusCompleted
	updated := doJSON(t, http.MethodPut, taskURL, ana, model.TaskUpdateRequest{Status: &completed})
	require.Equal(t, http.StatusOK, updated.StatusCode)
	assert.Equal(t, model.TaskStatusCompleted, decode[model.Task](t, updated).Status)

	filtered := doJSON(t, http.MethodGet, server.URL+"/api/tasks?status=pending", ana, nil)
	require.Equal(t, http.StatusOK, filtered.StatusCode)
	assert.Empty(t, decode[[]model.Task](t, filtered))

	badFilter := doJSON(t, http.MethodGet, server.URL+"/api/tasks?status=INVALID", ana, nil)
	problem = decode[model.ProblemDetail](t, badFilter)
	assert.Equal(t, http.StatusBadRequest, badFilter.StatusCode)
	assert.Equal(t, "Invalid status: INVALID. Valid values are: PENDING, COMPLETED", problem.Detail)

	bobList := doJSON(t, http.MethodGet, server.URL+"/api/tasks", bob, nil)
	assert.Empty(t, decode[[]model.Task](t, bobList))

	deleted := doJSON(t, http.MethodDelete, taskURL, ana, nil)
	_ = deleted.Body.Close()
	require.Equal(t, http.StatusNoContent, deleted.StatusCode)

	missing := doJSON(t, http.MethodGet, taskURL, ana, nil)
	problem = decode[model.ProblemDetail](t, missing)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Equal(t, "The requested task does not exist", problem.Description)
}

func TestHealth(t *testing.T) {
	server := newServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestOpenAPIDocument(t *testing.T) {
	server := newServer(t)

	resp, err := http.Get(server.URL + "/openapi.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/api/tasks/{id}:")

	ui, err := http.Get(server.URL + "/swagger")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ui.Body.Close() })
	require.Equal(t, http.StatusOK, ui.StatusCode)
}
