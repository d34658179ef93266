package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// DraftRepo turns natural-language card drafts into persisted rows. The whole
// materialization is a single transaction: a failure at any step leaves no
// orphaned list, label or card behind.
type DraftRepo struct {
	pool *pgxpool.Pool
}

func NewDraftRepo(pool *pgxpool.Pool) *DraftRepo {
	return &DraftRepo{pool: pool}
}

func (r *DraftRepo) Materialize(ctx context.Context, boardID, actorID uuid.UUID, d *domain.CardDraft) (*domain.Card, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: %w: %w", domain.ErrValidation, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Lock the board row: list and label find-or-create and both position
	// allocations must serialize against concurrent creators.
	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM boards WHERE id = $1 FOR UPDATE`, boardID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("draftRepo.Materialize: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: lock board: %w", err)
	}

	listID, err := findOrCreateList(ctx, tx, boardID, d.ListName)
	if err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: %w", err)
	}

	now := time.Now()
	card := &domain.Card{
		ID:          uuid.New(),
		ListID:      listID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   &actorID,
		Labels:      make([]uuid.UUID, 0),
		Assignees:   make([]uuid.UUID, 0),
	}
	if err := insertCard(ctx, tx, card); err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: card: %w", err)
	}

	for _, name := range d.Labels {
		if name == "" {
			continue
		}
		labelID, err := findOrCreateLabel(ctx, tx, boardID, name)
		if err != nil {
			return nil, fmt.Errorf("draftRepo.Materialize: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO card_labels (card_id, label_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			card.ID, labelID,
		); err != nil {
			return nil, fmt.Errorf("draftRepo.Materialize: link label: %w", err)
		}
		card.Labels = append(card.Labels, labelID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("draftRepo.Materialize: commit: %w", err)
	}

	return card, nil
}

func findOrCreateList(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, name string) (uuid.UUID, error) {
	var id uuid.UUID

	err := tx.QueryRow(ctx,
		`SELECT id FROM lists WHERE board_id = $1 AND lower(name) = lower($2) LIMIT 1`,
		boardID, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("find list: %w", err)
	}

	var position int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM lists WHERE board_id = $1`, boardID,
	).Scan(&position)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list position: %w", err)
	}

	id = uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO lists (id, board_id, name, position, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, boardID, name, position, time.Now(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create list: %w", err)
	}

	return id, nil
}

func findOrCreateLabel(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, name string) (uuid.UUID, error) {
	var id uuid.UUID

	err := tx.QueryRow(ctx,
		`SELECT id FROM labels WHERE board_id = $1 AND lower(name) = lower($2) LIMIT 1`,
		boardID, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("find label: %w", err)
	}

	id = uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO labels (id, board_id, name, color) VALUES ($1, $2, $3, $4)`,
		id, boardID, name, domain.ColorForLabel(name),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create label: %w", err)
	}

	return id, nil
}
