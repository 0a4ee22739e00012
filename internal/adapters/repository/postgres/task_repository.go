package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

// sortColumns maps client-facing sort field names to real columns. Sorting
// never interpolates user input into SQL; unknown fields fall back to
// creation order.
var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
}

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) ports.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, description, completed, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Description, task.Completed, task.OwnerID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, description, completed, owner_id, created_at, updated_at
		FROM tasks WHERE id = $1 AND owner_id = $2
	`
	task := &domain.Task{}
	err := r.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID, &task.Description, &task.Completed, &task.OwnerID,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A task owned by someone else looks exactly like a
			// missing one.
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.TaskListFilter) ([]*domain.Task, error) {
	query, args := buildListQuery(ownerID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		task := &domain.Task{}
		if err := rows.Scan(
			&task.ID, &task.Description, &task.Completed, &task.OwnerID,
			&task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET description = $3, completed = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteByOwnerAndID(ctx context.Context, ownerID, taskID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func buildListQuery(ownerID uuid.UUID, filter ports.TaskListFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, description, completed, owner_id, created_at, updated_at
		FROM tasks WHERE owner_id = $1
	`)
	args := []any{ownerID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", column, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}
