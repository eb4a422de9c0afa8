package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

// Storage keeps every record in process memory. It is the fallback used when
// no database is reachable and the store behind most handler tests.
type Storage struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	tokens map[string]models.AccessToken
	tasks  map[int64]models.Task
	types  map[int64]models.Type
	lastID map[string]int64
	now    func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		users:  make(map[int64]models.User),
		tokens: make(map[string]models.AccessToken),
		tasks:  make(map[int64]models.Task),
		types:  make(map[int64]models.Type),
		lastID: make(map[string]int64),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return errors.ErrUserAlreadyExists
		}
	}
	now := s.now()
	user.ID = s.nextID("users")
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) CreateToken(_ context.Context, token *models.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.ID] = *token
	return nil
}

func (s *Storage) GetToken(_ context.Context, id string) (*models.AccessToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, exists := s.tokens[id]
	if !exists {
		return nil, errors.ErrTokenNotFound
	}
	return &token, nil
}

func (s *Storage) TouchToken(_ context.Context, id string, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, exists := s.tokens[id]
	if !exists {
		return errors.ErrTokenNotFound
	}
	token.LastUsedAt = &usedAt
	s.tokens[id] = token
	return nil
}

func (s *Storage) DeleteToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[id]; !exists {
		return errors.ErrTokenNotFound
	}
	delete(s.tokens, id)
	return nil
}

func (s *Storage) GetTasks(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Trashed() {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].Deadline.Equal(tasks[j].Deadline.Time) {
			return tasks[i].Deadline.Before(tasks[j].Deadline.Time)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.GetTaskWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Trashed() {
		return nil, errors.ErrNotFound
	}
	return task, nil
}

func (s *Storage) GetTaskWithTrashed(_ context.Context, id int64) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	return &task, nil
}

func (s *Storage) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	task.ID = s.nextID("tasks")
	task.CreatedAt, task.UpdatedAt = now, now
	task.DeletedAt = nil
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) UpdateTask(_ context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, exists := s.tasks[id]
	if !exists || task.Trashed() {
		return nil, errors.ErrNotFound
	}
	patch.Apply(&task)
	task.UpdatedAt = s.now()
	s.tasks[id] = task
	return &task, nil
}

func (s *Storage) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, exists := s.tasks[id]
	if !exists || task.Trashed() {
		return errors.ErrNotFound
	}
	deletedAt := s.now()
	task.DeletedAt = &deletedAt
	s.tasks[id] = task
	return nil
}

func (s *Storage) GetTypes(_ context.Context) ([]models.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]models.Type, 0, len(s.types))
	for _, t := range s.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if types[i].Name != types[j].Name {
			return types[i].Name < types[j].Name
		}
		return types[i].ID < types[j].ID
	})
	return types, nil
}

func (s *Storage) GetTypeByID(_ context.Context, id int64) (*models.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	typ, exists := s.types[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	return &typ, nil
}

func (s *Storage) CreateType(_ context.Context, typ *models.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	typ.ID = s.nextID("types")
	typ.CreatedAt, typ.UpdatedAt = now, now
	s.types[typ.ID] = *typ
	return nil
}

func (s *Storage) UpdateType(_ context.Context, id int64, name string) (*models.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	typ, exists := s.types[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	typ.Name = name
	typ.UpdatedAt = s.now()
	s.types[id] = typ
	return &typ, nil
}

// DeleteType removes the row for good. Tasks pointing at it are untouched.
func (s *Storage) DeleteType(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.types[id]; !exists {
		return errors.ErrNotFound
	}
	delete(s.types, id)
	return nil
}

// CountTasks counts every task row, soft-deleted ones included.
func (s *Storage) CountTasks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
