package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task always belongs to exactly one user and is only ever reachable
// through requests authenticated as that user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
