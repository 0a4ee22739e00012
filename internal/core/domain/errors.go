package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both a genuinely missing record and a record
	// owned by someone else. Callers must not be able to tell the two
	// apart.
	ErrNotFound = errors.New("not found")

	// ErrAuthenticationRequired is returned for every authentication
	// failure: missing header, bad signature, unknown user or revoked
	// token. The cause is never distinguished.
	ErrAuthenticationRequired = errors.New("you need authentication")

	// ErrInvalidCredentials is returned by login for unknown email and
	// wrong password alike.
	ErrInvalidCredentials = errors.New("unable to log in")

	ErrEmailTaken = errors.New("email is already registered")
	ErrInternal   = errors.New("internal server error")
)

// ValidationError reports per-field constraint violations. The whole write
// is rejected; nothing is persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DisallowedFieldsError rejects a partial update that touches fields
// outside the entity's allow-list.
type DisallowedFieldsError struct {
	Fields []string
}

func (e *DisallowedFieldsError) Error() string {
	return "update not allowed for fields: " + strings.Join(e.Fields, ", ")
}
