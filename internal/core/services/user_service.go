package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

// userUpdatableFields is the allow-list for PATCH /users/me. Anything else
// in the payload rejects the whole update.
var userUpdatableFields = map[string]struct{}{
	"name":     {},
	"surname":  {},
	"email":    {},
	"password": {},
	"age":      {},
}

const emailSendTimeout = 10 * time.Second

type UserService struct {
	users   ports.UserRepository
	auth    ports.AuthService
	email   ports.EmailSender
	avatars ports.AvatarProcessor
	log     *slog.Logger
}

func NewUserService(users ports.UserRepository, auth ports.AuthService, email ports.EmailSender, avatars ports.AvatarProcessor, log *slog.Logger) *UserService {
	return &UserService{
		users:   users,
		auth:    auth,
		email:   email,
		avatars: avatars,
		log:     log,
	}
}

func (s *UserService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, string, error) {
	user := &domain.User{
		ID:      uuid.New(),
		Name:    input.Name,
		Surname: input.Surname,
		Email:   input.Email,
		Age:     input.Age,
	}

	// Trim before both checking and hashing so the stored credential is
	// exactly the form the password policy approved.
	password := strings.TrimSpace(input.Password)
	if err := domain.ValidateUser(user, password, true); err != nil {
		return nil, "", err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.auth.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.sendAsync("welcome", user.Email, user.Name, s.email.SendWelcome)

	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) Patch(ctx context.Context, id uuid.UUID, payload map[string]json.RawMessage) (*domain.User, error) {
	if offending := disallowedFields(payload, userUpdatableFields); len(offending) > 0 {
		return nil, &domain.DisallowedFieldsError{Fields: offending}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var plainPassword string
	passwordChanged := false

	for field, raw := range payload {
		var fieldErr error
		switch field {
		case "name":
			fieldErr = json.Unmarshal(raw, &user.Name)
		case "surname":
			fieldErr = json.Unmarshal(raw, &user.Surname)
		case "email":
			fieldErr = json.Unmarshal(raw, &user.Email)
		case "age":
			fieldErr = json.Unmarshal(raw, &user.Age)
		case "password":
			if fieldErr = json.Unmarshal(raw, &plainPassword); fieldErr == nil {
				plainPassword = strings.TrimSpace(plainPassword)
			}
			passwordChanged = true
		}
		if fieldErr != nil {
			return nil, domain.NewValidationError(field, "has an invalid value")
		}
	}

	if err := domain.ValidateUser(user, plainPassword, passwordChanged); err != nil {
		return nil, err
	}

	// Only a plaintext change gets hashed; rehashing a stored hash would
	// corrupt it.
	if passwordChanged {
		hash, err := s.auth.HashPassword(plainPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account and every task it owns, then notifies the
// user by email.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.sendAsync("cancellation", user.Email, user.Name, s.email.SendCancellation)

	return user, nil
}

func (s *UserService) UploadAvatar(ctx context.Context, id uuid.UUID, raw []byte) error {
	normalized, err := s.avatars.Normalize(raw)
	if err != nil {
		return domain.NewValidationError("avatar", "must be a valid image")
	}
	return s.users.SetAvatar(ctx, id, normalized)
}

func (s *UserService) DeleteAvatar(ctx context.Context, id uuid.UUID) error {
	return s.users.SetAvatar(ctx, id, nil)
}

func (s *UserService) Avatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	avatar, err := s.users.GetAvatar(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(avatar) == 0 {
		return nil, domain.ErrNotFound
	}
	return avatar, nil
}

// sendAsync fires a transactional email without blocking or failing the
// request that triggered it.
func (s *UserService) sendAsync(kind, email, name string, send func(context.Context, string, string) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()

		if err := send(ctx, email, name); err != nil {
			s.log.Error(fmt.Sprintf("failed to send %s email", kind), "email", email, "error", err)
		}
	}()
}
