package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go-task-tracker/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs the server
// when no DATABASE_URL is configured.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byID: map[int64]model.User{}}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.findLocked(func(u model.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) }); ok {
		return u, nil
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *MemoryUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.findLocked(func(u model.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) })
	return ok, nil
}

func (r *MemoryUserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.findLocked(func(u model.User) bool { return u.Username == strings.TrimSpace(username) })
	return ok, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, taken := r.findLocked(func(existing model.User) bool {
		return strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username
	})
	if taken {
		return fmt.Errorf("create user: %w", model.ErrUserAlreadyExists)
	}

	r.nextID++
	now := time.Now().UTC()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.byID[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) findLocked(match func(model.User) bool) (model.User, bool) {
	for _, u := range r.byID {
		if match(u) {
			return u, true
		}
	}
	return model.User{}, false
}

type MemoryTaskRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{byID: map[int64]model.Task{}}
}

func (r *MemoryTaskRepository) Create(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.byID[t.ID] = *t
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id int64) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (r *MemoryTaskRepository) ListByUser(_ context.Context, userID int64, status model.TaskStatus) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.Task, 0)
	for _, t := range r.byID {
		if t.UserID != userID || (status != "" && t.Status != status) {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, t model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; !ok {
		return model.ErrTaskNotFound
	}
	r.byID[t.ID] = t
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return model.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}
