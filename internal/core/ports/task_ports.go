package ports

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/taskstack/api/internal/core/domain"
)

// TaskListFilter narrows and orders an owner-scoped listing. A nil
// Completed means no filter; Limit <= 0 means no limit; Skip <= 0 means
// start from the beginning.
type TaskListFilter struct {
	Completed *bool
	SortField string
	SortDesc  bool
	Limit     int
	Skip      int
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskListFilter) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	DeleteByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type CreateTaskInput struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter TaskListFilter) ([]*domain.Task, error)
	Patch(ctx context.Context, ownerID, taskID uuid.UUID, payload map[string]json.RawMessage) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}
