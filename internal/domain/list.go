package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// List is an ordered column of cards within a board. Position is unique within
// the board but not necessarily contiguous; density is restored on reorder.
type List struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// NewList creates a List with validated required fields. Position is assigned
// by the repository inside the insert transaction.
func NewList(boardID uuid.UUID, name string) (*List, error) {
	if boardID == uuid.Nil {
		return nil, errors.New("list: board ID is required")
	}
	if name == "" {
		return nil, errors.New("list: name is required")
	}
	return &List{
		ID:        uuid.New(),
		BoardID:   boardID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

type ListRepository interface {
	// Create inserts the list at position max(siblings)+1, computed inside the
	// insert transaction with the board row locked, and fills l.Position.
	Create(ctx context.Context, l *List) error
	GetByID(ctx context.Context, id uuid.UUID) (*List, error)
	// Reorder assigns position = index for every list ID in order, in one
	// transaction. Lists absent from ids are untouched.
	Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error
	// Delete cascades to the list's cards.
	Delete(ctx context.Context, id uuid.UUID) error
}
