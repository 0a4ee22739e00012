package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskstack/api/internal/core/domain"
	"github.com/taskstack/api/internal/core/ports"
)

func newTestUserService() (*UserService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	auth := NewAuthService(users, tokens, []byte("test-secret"))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewUserService(users, auth, fakeEmailSender{}, fakeAvatarProcessor{}, log)
	return svc, users, tokens
}

func validSignup() ports.SignupInput {
	return ports.SignupInput{
		Name:     "Mike",
		Email:    "mike@example.com",
		Password: "123!@#qweQWE",
	}
}

func rawPayload(t *testing.T, fields map[string]any) map[string]json.RawMessage {
	t.Helper()

	payload := map[string]json.RawMessage{}
	for field, value := range fields {
		raw, err := json.Marshal(value)
		require.NoError(t, err)
		payload[field] = raw
	}
	return payload
}

func TestSignup(t *testing.T) {
	svc, _, tokens := newTestUserService()

	user, token, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	assert.Equal(t, "mike@example.com", user.Email)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "123!@#qweQWE", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123!@#qweQWE")))

	active, err := tokens.Exists(context.Background(), user.ID, token)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestSignup_RejectsWeakPassword(t *testing.T) {
	svc, _, _ := newTestUserService()

	input := validSignup()
	input.Password = "password"

	_, _, err := svc.Signup(context.Background(), input)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "password")
}

func TestSignup_TrimsPasswordBeforeHashing(t *testing.T) {
	svc, _, _ := newTestUserService()

	input := validSignup()
	input.Password = "  123!@#qweQWE  "

	user, _, err := svc.Signup(context.Background(), input)
	require.NoError(t, err)

	// The stored hash must match the trimmed form, so the user can log in
	// with the password they actually see.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("123!@#qweQWE")))
}

func TestSignup_RejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), validSignup())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestPatch_UpdatesAllowedFields(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	updated, err := svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{
		"name":    "Michael",
		"surname": "Smith",
		"age":     30,
	}))
	require.NoError(t, err)

	assert.Equal(t, "Michael", updated.Name)
	assert.Equal(t, "Smith", updated.Surname)
	assert.Equal(t, 30, updated.Age)
}

func TestPatch_RejectsDisallowedFieldAtomically(t *testing.T) {
	svc, users, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{
		"name":   "Michael",
		"height": 180,
	}))

	var disallowedErr *domain.DisallowedFieldsError
	require.ErrorAs(t, err, &disallowedErr)
	assert.Equal(t, []string{"height"}, disallowedErr.Fields)

	// The allowed field in the same payload must not have been applied.
	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mike", stored.Name)
}

func TestPatch_RehashesOnlyWhenPasswordChanges(t *testing.T) {
	svc, users, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	originalHash := user.PasswordHash

	_, err = svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{"name": "Michael"}))
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, originalHash, stored.PasswordHash, "hash must not change when password is untouched")

	_, err = svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{"password": "456!@#rtyRTY"}))
	require.NoError(t, err)

	stored, err = users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, originalHash, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("456!@#rtyRTY")))
}

func TestPatch_TrimsPasswordBeforeHashing(t *testing.T) {
	svc, users, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{"password": "  456!@#rtyRTY  "}))
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("456!@#rtyRTY")))
}

func TestPatch_RejectsInvalidFieldValue(t *testing.T) {
	svc, users, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Patch(context.Background(), user.ID, rawPayload(t, map[string]any{"age": "old"}))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "age")

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Age)
}

func TestDelete(t *testing.T) {
	svc, users, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)

	_, err = users.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAvatarLifecycle(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Avatar(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no avatar uploaded yet")

	require.NoError(t, svc.UploadAvatar(context.Background(), user.ID, []byte("image-bytes")))

	avatar, err := svc.Avatar(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), avatar)

	require.NoError(t, svc.DeleteAvatar(context.Background(), user.ID))

	_, err = svc.Avatar(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
