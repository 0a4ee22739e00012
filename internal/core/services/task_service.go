package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

// taskUpdatableFields is the allow-list for PATCH /tasks/{id}. Timestamps
// are not client-settable.
var taskUpdatableFields = map[string]struct{}{
	"description": {},
	"completed":   {},
}

type TaskService struct {
	tasks ports.TaskRepository
}

func NewTaskService(tasks ports.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, input ports.CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		ID:          uuid.New(),
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     ownerID,
	}

	if err := domain.ValidateTask(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByOwnerAndID(ctx, ownerID, taskID)
}

func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter ports.TaskListFilter) ([]*domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID, filter)
}

func (s *TaskService) Patch(ctx context.Context, ownerID, taskID uuid.UUID, payload map[string]json.RawMessage) (*domain.Task, error) {
	if offending := disallowedFields(payload, taskUpdatableFields); len(offending) > 0 {
		return nil, &domain.DisallowedFieldsError{Fields: offending}
	}

	task, err := s.tasks.GetByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	for field, raw := range payload {
		var fieldErr error
		switch field {
		case "description":
			fieldErr = json.Unmarshal(raw, &task.Description)
		case "completed":
			fieldErr = json.Unmarshal(raw, &task.Completed)
		}
		if fieldErr != nil {
			return nil, domain.NewValidationError(field, "has an invalid value")
		}
	}

	if err := domain.ValidateTask(task); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByOwnerAndID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.DeleteByOwnerAndID(ctx, ownerID, taskID); err != nil {
		return nil, err
	}
	return task, nil
}
