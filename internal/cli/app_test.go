package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/internal/config"
	"go-task-tracker/internal/model"
	"go-task-tracker/internal/tokenstore"
)

// fakeAPI is a minimal single-user task server.
type fakeAPI struct {
	mu        sync.Mutex
	tasks     []model.Task
	nextID    int64
	rejectAll int // status returned for every /api call when non-zero
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			writeProblem(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeJSON(w, http.StatusOK, model.LoginResponse{Token: mintToken(t, req.Email, time.Hour), ExpiresIn: 3600000})
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "taken@example.com" {
			writeProblem(w, http.StatusConflict, "User already exists with email: taken@example.com")
			return
		}
		writeJSON(w, http.StatusOK, model.User{ID: 1, Username: req.Username, Email: req.Email})
	})

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeProblem(w, http.StatusUnauthorized, "Full authentication is required")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.rejectAll != 0 {
			writeProblem(w, f.rejectAll, "rejected")
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/tasks":
			writeJSON(w, http.StatusOK, f.tasks)
		case r.Method == http.MethodPost && r.URL.Path == "/api/tasks":
			var req model.TaskCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.nextID++
			task := model.Task{ID: f.nextID, Title: req.Title, Description: req.Description, Status: req.Status, UserID: 1}
			f.tasks = append(f.tasks, task)
			writeJSON(w, http.StatusOK, task)
		case r.Method == http.MethodPut:
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), 10, 64)
			var req model.TaskUpdateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			for i := range f.tasks {
				if f.tasks[i].ID == id {
					if req.Status != nil {
						f.tasks[i].Status = *req.Status
					}
					if req.Title != nil {
						f.tasks[i].Title = *req.Title
					}
					writeJSON(w, http.StatusOK, f.tasks[i])
					return
				}
			}
			writeProblem(w, http.StatusNotFound, "Task not found")
		case r.Method == http.MethodDelete:
			id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/tasks/"), 10, 64)
			for i := range f.tasks {
				if f.tasks[i].ID == id {
					f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			writeProblem(w, http.StatusNotFound, "Task not found")
		default:
			http.NotFound(w, r)
		}
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, model.ProblemDetail{
		Title:       http.StatusText(status),
		Status:      status,
		Detail:      description,
		Description: description,
	})
}

func mintToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type harness struct {
	api    *fakeAPI
	store  *tokenstore.MemoryStore
	cfg    *config.ClientConfig
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{api: &fakeAPI{}, store: tokenstore.NewMemoryStore()}
	srv := httptest.NewServer(h.api.handler(t))
	t.Cleanup(srv.Close)

	h.cfg = &config.ClientConfig{
		APIBaseURL:     srv.URL,
		TokenFile:      "unused",
		RequestTimeout: 5 * time.Second,
	}
	return h
}

// run builds a fresh App per invocation, the way each taskctl process does.
func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()

	h.stdout.Reset()
	h.stderr.Reset()
	app, err := New(h.cfg, &h.stdout, &h.stderr,
		WithStore(h.store),
		WithScheduler(func(time.Duration, func()) func() { return func() {} }),
	)
	require.NoError(t, err)
	defer app.Close()

	return app.Run(context.Background(), args)
}

func TestLoginAndTaskLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	require.Equal(t, ExitSuccess, h.run(t, "login", "-email", "ana@example.com", "-password", "secret1"))
	assert.Equal(t, "logged in as ana@example.com\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "[success] Login successful! Welcome back.")

	require.Equal(t, ExitSuccess, h.run(t, "whoami"))
	assert.Equal(t, "ana@example.com\n", h.stdout.String())

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "add", "-title", "Buy milk", "-description", "2 litres"))
	assert.Equal(t, "1\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "[success] Task created successfully!")

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "add", "Write", "report"))

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "toggle", "1"))
	assert.Equal(t, "1 COMPLETED\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "[success] Task marked as completed!")

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "list"))
	out := h.stdout.String()
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "1 pending, 1 completed")

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "list", "-status", "pending", "-json"))
	var listed []model.Task
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Write report", listed[0].Title)

	require.Equal(t, ExitSuccess, h.run(t, "tasks", "rm", "2"))
	assert.Contains(t, h.stderr.String(), "[success] Task deleted successfully")

	require.Equal(t, ExitSuccess, h.run(t, "logout"))
	assert.Contains(t, h.stderr.String(), "Signed out.")
	_, ok, err := h.store.Read()
	require.NoError(t, err)
	assert.False(t, ok)

	require.Equal(t, ExitUnauthorized, h.run(t, "whoami"))
}

func TestTasksRequireLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	require.Equal(t, ExitUnauthorized, h.run(t, "tasks", "list"))
	assert.Contains(t, h.stderr.String(), "Login required.")
	assert.Empty(t, h.stdout.String())
}

func TestExpiredTokenIsDroppedAtStart(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	require.NoError(t, h.store.Save(mintToken(t, "ana@example.com", -time.Minute)))

	require.Equal(t, ExitUnauthorized, h.run(t, "whoami"))
	_, ok, err := h.store.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRejectedTokenLogsOut(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	require.NoError(t, h.store.Save(mintToken(t, "ana@example.com", time.Hour)))
	h.api.rejectAll = http.StatusUnauthorized

	require.Equal(t, ExitUnauthorized, h.run(t, "tasks", "list"))
	stderr := h.stderr.String()
	assert.Contains(t, stderr, "[error] Session expired. Please login again.")
	assert.Contains(t, stderr, "[error] Failed to load tasks. Please try again.")
	assert.Contains(t, stderr, "Signed out.")

	_, ok, err := h.store.Read()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForbiddenLogsOut(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	require.NoError(t, h.store.Save(mintToken(t, "ana@example.com", time.Hour)))
	h.api.rejectAll = http.StatusForbidden

	require.Equal(t, ExitUnauthorized, h.run(t, "tasks", "rm", "5"))
	assert.Contains(t, h.stderr.String(), "[error] Access denied. You don't have permission.")
	assert.Contains(t, h.stderr.String(), "[error] Failed to delete task. Please try again.")
}

func TestWhoamiSeesTokenWrittenAfterStart(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	app, err := New(h.cfg, &h.stdout, &h.stderr,
		WithStore(h.store),
		WithScheduler(func(time.Duration, func()) func() { return func() {} }),
	)
	require.NoError(t, err)
	defer app.Close()

	// Another taskctl process logs in after this one restored an empty session.
	require.NoError(t, h.store.Save(mintToken(t, "ana@example.com", time.Hour)))

	require.Equal(t, ExitSuccess, app.Run(context.Background(), []string{"whoami"}))
	assert.Equal(t, "ana@example.com\n", h.stdout.String())
}

func TestLoginFailureShowsServerDescription(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	require.Equal(t, ExitUnauthorized, h.run(t, "login", "-email", "ana@example.com", "-password", "wrong"))
	stderr := h.stderr.String()
	assert.Contains(t, stderr, "[error] Invalid email or password")
	assert.NotContains(t, stderr, "Session expired")
	assert.NotContains(t, stderr, "Signed out.")
}

func TestRegister(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	require.Equal(t, ExitSuccess, h.run(t, "register", "-username", "ana", "-email", "ana@example.com", "-password", "secret1"))
	assert.Equal(t, "registered ana <ana@example.com>\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "[success] Registration successful!")

	require.Equal(t, ExitFailure, h.run(t, "register", "-username", "x", "-email", "taken@example.com", "-password", "secret1"))
	assert.Contains(t, h.stderr.String(), "[error] User already exists with email: taken@example.com")

	require.Equal(t, ExitUsage, h.run(t, "register", "-username", "x", "-email", "x@example.com", "-password", "secret1", "-confirm", "other"))
	assert.Contains(t, h.stderr.String(), "[warning] Passwords do not match")
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	assert.Equal(t, ExitUsage, h.run(t))
	assert.Contains(t, h.stderr.String(), "usage: taskctl")

	assert.Equal(t, ExitUsage, h.run(t, "frobnicate"))
	assert.Contains(t, h.stderr.String(), `unknown command "frobnicate"`)

	require.NoError(t, h.store.Save(mintToken(t, "ana@example.com", time.Hour)))
	assert.Equal(t, ExitUsage, h.run(t, "tasks", "toggle", "abc"))
	assert.Equal(t, ExitUsage, h.run(t, "tasks", "add", "-title", "   "))
	assert.Contains(t, h.stderr.String(), "Task title is required")
	assert.Equal(t, ExitUsage, h.run(t, "tasks", "list", "-status", "DONE"))
}
