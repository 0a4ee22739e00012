package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) ports.TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Add(ctx context.Context, token *domain.SessionToken) error {
	query := `
		INSERT INTO session_tokens (id, user_id, token)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, token.ID, token.UserID, token.Token).Scan(&token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM session_tokens WHERE user_id = $1 AND token = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session token: %w", err)
	}
	return exists, nil
}

func (r *TokenRepository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1 AND token = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

func (r *TokenRepository) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete session tokens: %w", err)
	}
	return nil
}
