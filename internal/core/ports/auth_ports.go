package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskstack/api/internal/core/domain"
)

type TokenRepository interface {
	Add(ctx context.Context, token *domain.SessionToken) error
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAll(ctx context.Context, userID uuid.UUID) error
}

type AuthService interface {
	HashPassword(plaintext string) (string, error)
	// FindByCredentials fails with the same generic error whether the
	// email is unknown or the password mismatches.
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)
	IssueToken(ctx context.Context, userID uuid.UUID) (string, error)
	// Authenticate resolves a bearer token to its user. The token must
	// carry a valid signature and still be present in the user's active
	// session list.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}
