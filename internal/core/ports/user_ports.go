package ports

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/taskstack/api/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user together with all tasks they own, in a
	// single transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	// SetAvatar stores the avatar bytes; a nil avatar clears it.
	SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type SignupInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

type UserService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, string, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Patch(ctx context.Context, id uuid.UUID, payload map[string]json.RawMessage) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, raw []byte) error
	DeleteAvatar(ctx context.Context, id uuid.UUID) error
	Avatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}
