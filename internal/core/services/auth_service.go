package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

const bcryptCost = 8

// tokenClaims binds a signed token to a user id. Tokens carry no expiry;
// revocation happens by removing the row from the session list.
type tokenClaims struct {
	jwt.RegisteredClaims
}

type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenRepository
	jwtSecret []byte
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, jwtSecret []byte) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwtSecret: jwtSecret,
	}
}

func (s *AuthService) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	// The session id doubles as the jti claim so that every issued token
	// is distinct, even for back-to-back logins of the same user. Without
	// it, two tokens minted within the same second would be identical and
	// logging out one session would revoke both.
	sessionID := uuid.New()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sessionID.String(),
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.SessionToken{
		ID:     sessionID,
		UserID: userID,
		Token:  signed,
	}
	if err := s.tokens.Add(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session token: %w", err)
	}

	return signed, nil
}

// verifyToken checks the signature and extracts the claimed user id.
func (s *AuthService) verifyToken(token string) (uuid.UUID, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, domain.ErrAuthenticationRequired
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrAuthenticationRequired
	}
	return userID, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.verifyToken(token)
	if err != nil {
		return nil, domain.ErrAuthenticationRequired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrAuthenticationRequired
	}

	// A valid signature alone is not enough: a token revoked by logout
	// must fail even though it still verifies.
	active, err := s.tokens.Exists(ctx, userID, token)
	if err != nil || !active {
		return nil, domain.ErrAuthenticationRequired
	}

	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.tokens.Remove(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}
	return nil
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.RemoveAll(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke session tokens: %w", err)
	}
	return nil
}
