package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() *User {
	return &User{
		ID:    uuid.New(),
		Name:  "Mike",
		Email: "mike@example.com",
	}
}

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(u *User)
		password string
		field    string
	}{
		{name: "valid", password: "123!@#qweQWE"},
		{name: "missing name", mutate: func(u *User) { u.Name = "  " }, password: "123!@#qweQWE", field: "name"},
		{name: "missing email", mutate: func(u *User) { u.Email = "" }, password: "123!@#qweQWE", field: "email"},
		{name: "malformed email", mutate: func(u *User) { u.Email = "not-an-email" }, password: "123!@#qweQWE", field: "email"},
		{name: "negative age", mutate: func(u *User) { u.Age = -1 }, password: "123!@#qweQWE", field: "age"},
		{name: "short password", password: "1!aB", field: "password"},
		{name: "no character mix", password: "aaaaaaaaaa", field: "password"},
		{name: "missing symbol", password: "abcDEF123", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			if tt.mutate != nil {
				tt.mutate(user)
			}

			err := ValidateUser(user, tt.password, true)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}
}

func TestValidateUser_TrimsFields(t *testing.T) {
	user := validUser()
	user.Name = "  Mike "
	user.Surname = " Smith  "
	user.Email = " mike@example.com "

	require.NoError(t, ValidateUser(user, "123!@#qweQWE", true))

	assert.Equal(t, "Mike", user.Name)
	assert.Equal(t, "Smith", user.Surname)
	assert.Equal(t, "mike@example.com", user.Email)
}

func TestValidateUser_SkipsPasswordPolicyWhenUnchanged(t *testing.T) {
	user := validUser()
	user.PasswordHash = "$2a$08$already-hashed"

	// The stored hash would never pass the plaintext policy; it must not
	// be checked when the password did not change.
	assert.NoError(t, ValidateUser(user, "", false))
}

func TestValidateTask(t *testing.T) {
	task := &Task{ID: uuid.New(), Description: "  buy milk  ", OwnerID: uuid.New()}

	require.NoError(t, ValidateTask(task))
	assert.Equal(t, "buy milk", task.Description)

	task.Description = "   "
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateTask(task), &validationErr)
	assert.Contains(t, validationErr.Fields, "description")

	task.Description = "buy milk"
	task.OwnerID = uuid.Nil
	require.ErrorAs(t, ValidateTask(task), &validationErr)
	assert.Contains(t, validationErr.Fields, "owner")
}
