package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardDraft is the structured output of the natural-language collaborator:
// a card to create, the list it should land in, and label names to attach.
type CardDraft struct {
	Title       string     `json:"title"`
	ListName    string     `json:"list_name"`
	Labels      []string   `json:"labels"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Description string     `json:"description"`
}

// Validate checks the fields a draft cannot do without.
func (d *CardDraft) Validate() error {
	if d.Title == "" {
		return errors.New("draft: title is required")
	}
	if d.ListName == "" {
		return errors.New("draft: list name is required")
	}
	return nil
}

type DraftRepository interface {
	// Materialize turns a draft into persisted rows in one transaction:
	// find-or-create the named list (next board position if new), create the
	// card at the next list position, find-or-create each named label
	// (keyword-mapped color), link labels to the card. Any failure rolls the
	// whole draft back.
	Materialize(ctx context.Context, boardID, actorID uuid.UUID, d *CardDraft) (*Card, error)
}
