package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Board is the top-level container. It is owned by exactly one user and shared
// with invited members.
type Board struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBoard creates a Board with validated required fields.
func NewBoard(ownerID uuid.UUID, name string) (*Board, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("board: owner ID is required")
	}
	if name == "" {
		return nil, errors.New("board: name is required")
	}
	return &Board{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}, nil
}

// BoardSummary is a board row as seen from the dashboard: the board plus the
// caller's effective role on it.
type BoardSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// ListTree is a list with its cards hydrated in position order.
type ListTree struct {
	List
	Cards []*Card `json:"cards"`
}

// BoardDetail is the full nested board state a client works against: lists in
// position order, each with its cards in position order, plus the board's
// labels and members. Role is the requesting user's effective role.
type BoardDetail struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	OwnerID uuid.UUID   `json:"owner_id"`
	Role    Role        `json:"role"`
	Lists   []*ListTree `json:"lists"`
	Labels  []*Label    `json:"labels"`
	Members []*Member   `json:"members"`
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	// GetDetail hydrates the full nested board state. Role is left zero; the
	// caller resolves it separately.
	GetDetail(ctx context.Context, id uuid.UUID) (*BoardDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BoardSummary, error)
	// Delete cascades to lists, cards, labels and memberships.
	Delete(ctx context.Context, id uuid.UUID) error
}
