package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is one entry of a card's ordered checklist.
type ChecklistItem struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
}

// Card is a single task unit. It belongs to exactly one list; Position is
// unique within that list. Labels and Assignees only ever reference IDs that
// exist on the owning board.
type Card struct {
	ID          uuid.UUID       `json:"id"`
	ListID      uuid.UUID       `json:"list_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Checklist   []ChecklistItem `json:"checklist,omitempty"`
	Position    int             `json:"position"`
	Labels      []uuid.UUID     `json:"labels"`
	Assignees   []uuid.UUID     `json:"assignees"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UpdatedBy   *uuid.UUID      `json:"updated_by,omitempty"`
}

// NewCard creates a Card with validated required fields. Position is assigned
// by the repository inside the insert transaction.
func NewCard(listID uuid.UUID, title string) (*Card, error) {
	if listID == uuid.Nil {
		return nil, errors.New("card: list ID is required")
	}
	if title == "" {
		return nil, errors.New("card: title is required")
	}
	now := time.Now()
	return &Card{
		ID:        uuid.New(),
		ListID:    listID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type CardRepository interface {
	// Create inserts the card at position max(siblings)+1, computed inside the
	// insert transaction with the list row locked, and fills c.Position.
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	// BoardOf resolves the board a card belongs to, through its list.
	BoardOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	// Update persists title, description, due date, checklist and audit fields.
	Update(ctx context.Context, c *Card) error
	// Reorder assigns position = index for every card ID in order, adopting
	// each card into listID, in one transaction. Cards absent from ids are
	// untouched. A cross-list move is two Reorder calls: source without the
	// moved card, destination including it.
	Reorder(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Duplicate copies a card (including its label links) into the same list
	// at the next position, in one transaction.
	Duplicate(ctx context.Context, id, actorID uuid.UUID) (*Card, error)
	Assign(ctx context.Context, cardID, userID uuid.UUID) error
	Unassign(ctx context.Context, cardID, userID uuid.UUID) error
}
