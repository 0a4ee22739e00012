package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	avatar := stored.Avatar
	copied := *user
	copied.Avatar = avatar
	copied.UpdatedAt = time.Now()
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) SetAvatar(_ context.Context, id uuid.UUID, avatar []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Avatar = avatar
	return nil
}

func (r *fakeUserRepo) GetAvatar(_ context.Context, id uuid.UUID) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user.Avatar, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uuid.UUID][]string{}}
}

func (r *fakeTokenRepo) Add(_ context.Context, token *domain.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.UserID] = append(r.tokens[token.UserID], token.Token)
	return nil
}

func (r *fakeTokenRepo) Exists(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.tokens[userID], token), nil
}

func (r *fakeTokenRepo) Remove(_ context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = slices.DeleteFunc(r.tokens[userID], func(t string) bool {
		return t == token
	})
	return nil
}

func (r *fakeTokenRepo) RemoveAll(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, userID)
	return nil
}

type fakeTaskRepo struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]*domain.Task
	updates int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[uuid.UUID]*domain.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByOwnerAndID(_ context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, filter ports.TaskListFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Task{}
	for _, task := range r.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		copied := *task
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok || stored.OwnerID != task.OwnerID {
		return domain.ErrNotFound
	}
	copied := *task
	copied.UpdatedAt = time.Now()
	r.tasks[task.ID] = &copied
	r.updates++
	return nil
}

func (r *fakeTaskRepo) DeleteByOwnerAndID(_ context.Context, ownerID, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

type fakeEmailSender struct{}

func (fakeEmailSender) SendWelcome(context.Context, string, string) error      { return nil }
func (fakeEmailSender) SendCancellation(context.Context, string, string) error { return nil }

type fakeAvatarProcessor struct{}

func (fakeAvatarProcessor) Normalize(raw []byte) ([]byte, error) { return raw, nil }
