package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an identity consumed from the external credential system. This
// service never issues credentials; it only resolves users for membership
// lookups and invites.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
}
