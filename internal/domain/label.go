package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Label is a board-scoped tag, linked many-to-many with cards.
type Label struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"board_id"`
	Name    string    `json:"name"`
	Color   string    `json:"color"`
}

// ColorForLabel picks a color tag for an inferred label name by keyword.
// Used when the natural-language path creates labels without an explicit color.
func ColorForLabel(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "high"):
		return "red"
	case strings.Contains(n, "medium"):
		return "yellow"
	case strings.Contains(n, "low"):
		return "green"
	case strings.Contains(n, "progress"):
		return "blue"
	case strings.Contains(n, "done"):
		return "gray"
	default:
		return "slate"
	}
}

type LabelRepository interface {
	Create(ctx context.Context, l *Label) error
	GetByID(ctx context.Context, id uuid.UUID) (*Label, error)
	// Attach links a label to a card. Returns ErrConflict when the link
	// already exists.
	Attach(ctx context.Context, cardID, labelID uuid.UUID) error
	Detach(ctx context.Context, cardID, labelID uuid.UUID) error
	// Delete removes the label and, via cascade, its link on every card of
	// the board.
	Delete(ctx context.Context, id uuid.UUID) error
}
