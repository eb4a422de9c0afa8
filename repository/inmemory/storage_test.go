package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title, deadline string) *models.Task {
	return &models.Task{
		TypeID:      1,
		UserID:      1,
		Title:       title,
		Description: "d",
		StartDate:   models.MustParseDate("2024-01-01"),
		Deadline:    models.MustParseDate(deadline),
		FinishDate:  models.MustParseDate(deadline),
		Status:      models.StatusOpen,
	}
}

func TestNewStorage(t *testing.T) {
	storage := NewStorage()

	assert.NotNil(t, storage)
	assert.Empty(t, storage.users)
	assert.Empty(t, storage.tokens)
	assert.Empty(t, storage.tasks)
	assert.Empty(t, storage.types)
}

func TestStorageCreateUser(t *testing.T) {
	tests := []struct {
		name  string
		user  *models.User
		setup func(*Storage)
		want  struct {
			error error
		}
	}{
		{
			name: "successful user creation",
			user: &models.User{Name: "Test", Email: "test@example.com", Password: "hash"},
			setup: func(s *Storage) {
			},
		},
		{
			name: "emails differing only in case are distinct",
			user: &models.User{Name: "Other", Email: "TEST@example.com", Password: "hash"},
			setup: func(s *Storage) {
				_ = s.CreateUser(context.Background(), &models.User{Email: "test@example.com"})
			},
		},
		{
			name: "duplicate email",
			user: &models.User{Name: "Other", Email: "test@example.com", Password: "hash"},
			setup: func(s *Storage) {
				_ = s.CreateUser(context.Background(), &models.User{Email: "test@example.com"})
			},
			want: struct {
				error error
			}{error: errors.ErrUserAlreadyExists},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewStorage()
			tt.setup(storage)

			err := storage.CreateUser(context.Background(), tt.user)
			if tt.want.error != nil {
				assert.ErrorIs(t, err, tt.want.error)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)

			byEmail, err := storage.GetUserByEmail(context.Background(), tt.user.Email)
			require.NoError(t, err)
			assert.Equal(t, tt.user.ID, byEmail.ID)

			byID, err := storage.GetUserByID(context.Background(), tt.user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.user.Email, byID.Email)
		})
	}
}

func TestStorageUserNotFound(t *testing.T) {
	storage := NewStorage()

	_, err := storage.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)

	require.NoError(t, storage.CreateUser(context.Background(), &models.User{Email: "case@example.com"}))
	_, err = storage.GetUserByEmail(context.Background(), "CASE@example.com")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)

	_, err = storage.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestStorageTokens(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	token := &models.AccessToken{ID: "tok-1", UserID: 1, Name: "cli", CreatedAt: time.Now()}
	require.NoError(t, storage.CreateToken(ctx, token))

	got, err := storage.GetToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "cli", got.Name)
	assert.Nil(t, got.LastUsedAt)

	usedAt := time.Now()
	require.NoError(t, storage.TouchToken(ctx, "tok-1", usedAt))
	got, err = storage.GetToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.True(t, usedAt.Equal(*got.LastUsedAt))

	require.NoError(t, storage.DeleteToken(ctx, "tok-1"))
	_, err = storage.GetToken(ctx, "tok-1")
	assert.ErrorIs(t, err, errors.ErrTokenNotFound)
	assert.ErrorIs(t, storage.DeleteToken(ctx, "tok-1"), errors.ErrTokenNotFound)
	assert.ErrorIs(t, storage.TouchToken(ctx, "tok-1", usedAt), errors.ErrTokenNotFound)
}

func TestStorageGetTasksOrderedByDeadline(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	for _, task := range []*models.Task{
		newTask("late", "2024-03-01"),
		newTask("early", "2024-01-05"),
		newTask("middle", "2024-02-01"),
		newTask("early-too", "2024-01-05"),
	} {
		require.NoError(t, storage.CreateTask(ctx, task))
	}

	tasks, err := storage.GetTasks(ctx)
	require.NoError(t, err)

	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"early", "early-too", "middle", "late"}, titles)
}

func TestStorageSoftDeleteTask(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	task := newTask("t", "2024-01-10")
	require.NoError(t, storage.CreateTask(ctx, task))
	require.NoError(t, storage.DeleteTask(ctx, task.ID))

	_, err := storage.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	tasks, err := storage.GetTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	trashed, err := storage.GetTaskWithTrashed(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, trashed.Trashed())
	assert.Equal(t, 1, storage.CountTasks())

	assert.ErrorIs(t, storage.DeleteTask(ctx, task.ID), errors.ErrNotFound)
	_, err = storage.UpdateTask(ctx, task.ID, models.TaskPatch{})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStorageUpdateTask(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	task := newTask("t", "2024-01-10")
	require.NoError(t, storage.CreateTask(ctx, task))

	concluded := models.StatusConcluded
	title := "renamed"
	updated, err := storage.UpdateTask(ctx, task.ID, models.TaskPatch{Status: &concluded, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConcluded, updated.Status)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "d", updated.Description)
	assert.Equal(t, task.Deadline, updated.Deadline)

	_, err = storage.UpdateTask(ctx, 999, models.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStorageTypes(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	for _, name := range []string{"urgent", "bug", "feature", "bug", "Zeta", "alpha"} {
		require.NoError(t, storage.CreateType(ctx, &models.Type{Name: name}))
	}

	types, err := storage.GetTypes(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(types))
	for _, typ := range types {
		names = append(names, typ.Name)
	}
	assert.Equal(t, []string{"Zeta", "alpha", "bug", "bug", "feature", "urgent"}, names)

	updated, err := storage.UpdateType(ctx, 1, "critical")
	require.NoError(t, err)
	assert.Equal(t, "critical", updated.Name)

	_, err = storage.UpdateType(ctx, 99, "x")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStorageDeleteTypeKeepsTasks(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	typ := &models.Type{Name: "urgent"}
	require.NoError(t, storage.CreateType(ctx, typ))
	task := newTask("t", "2024-01-10")
	task.TypeID = typ.ID
	require.NoError(t, storage.CreateTask(ctx, task))

	require.NoError(t, storage.DeleteType(ctx, typ.ID))

	_, err := storage.GetTypeByID(ctx, typ.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.ErrorIs(t, storage.DeleteType(ctx, typ.ID), errors.ErrNotFound)

	got, err := storage.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, typ.ID, got.TypeID)
}

func TestStorageConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = storage.CreateTask(ctx, newTask("t", "2024-01-10"))
		}()
	}
	wg.Wait()

	tasks, err := storage.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool)
	for _, task := range tasks {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}
