package ports

import "context"

// EmailSender delivers transactional mail. Callers fire it from a
// goroutine and only log failures; a broken mail setup never fails the
// request that triggered it.
type EmailSender interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// AvatarProcessor turns arbitrary uploaded image bytes into the stored
// avatar representation.
type AvatarProcessor interface {
	Normalize(raw []byte) ([]byte, error)
}
