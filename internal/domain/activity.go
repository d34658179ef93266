package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityEntry is one line of a board's activity feed. Recording is
// fire-and-forget: a failed write is logged and never fails the mutation
// that produced it.
type ActivityEntry struct {
	ID          uuid.UUID  `json:"id"`
	BoardID     uuid.UUID  `json:"board_id"`
	UserID      uuid.UUID  `json:"user_id"`
	CardID      *uuid.UUID `json:"card_id,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ActivityRepository interface {
	Record(ctx context.Context, e *ActivityEntry) error
	ListByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*ActivityEntry, error)
}
