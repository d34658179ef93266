package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Membership is the (user, board, role) triple. The board owner is not stored
// as a membership row; ownership is resolved from the board itself.
type Membership struct {
	UserID    uuid.UUID `json:"user_id"`
	BoardID   uuid.UUID `json:"board_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a membership joined with user identity, as shown on a board.
type Member struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
}

type MembershipRepository interface {
	// Get returns ErrNotFound when the user has no membership on the board.
	Get(ctx context.Context, boardID, userID uuid.UUID) (*Membership, error)
	// Add returns ErrConflict when the user is already a member.
	Add(ctx context.Context, m *Membership) error
}
