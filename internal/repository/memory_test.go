package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-tracker/internal/model"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	u := &model.User{Username: "ana", Email: "Ana@Example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	exists, err := repo.ExistsByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &model.User{Username: "other", Email: "ana@example.com"})
	require.ErrorIs(t, err, model.ErrUserAlreadyExists)

	_, err = repo.FindByID(ctx, 42)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestMemoryTaskRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepository()

	for _, task := range []*model.Task{
		{Title: "a", Status: model.TaskStatusPending, UserID: 1},
		{Title: "b", Status: model.TaskStatusCompleted, UserID: 1},
		{Title: "c", Status: model.TaskStatusPending, UserID: 2},
	} {
		require.NoError(t, repo.Create(ctx, task))
	}

	all, err := repo.ListByUser(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Title)

	pending, err := repo.ListByUser(ctx, 1, model.TaskStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	task, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	task.Status = model.TaskStatusPending
	require.NoError(t, repo.Update(ctx, task))

	require.NoError(t, repo.Delete(ctx, 2))
	require.ErrorIs(t, repo.Delete(ctx, 2), model.ErrTaskNotFound)
	require.ErrorIs(t, repo.Update(ctx, model.Task{ID: 99}), model.ErrTaskNotFound)
}
