package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

type LabelRepo struct {
	pool *pgxpool.Pool
}

func NewLabelRepo(pool *pgxpool.Pool) *LabelRepo {
	return &LabelRepo{pool: pool}
}

func (r *LabelRepo) Create(ctx context.Context, l *domain.Label) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO labels (id, board_id, name, color) VALUES ($1, $2, $3, $4)`,
		l.ID, l.BoardID, l.Name, l.Color,
	)
	if err != nil {
		return fmt.Errorf("labelRepo.Create: %w", err)
	}

	return nil
}

func (r *LabelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	var l domain.Label

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, name, color FROM labels WHERE id = $1`, id,
	).Scan(&l.ID, &l.BoardID, &l.Name, &l.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("labelRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("labelRepo.GetByID: %w", err)
	}

	return &l, nil
}

// Attach links a label to a card. The card and label must belong to the same
// board; a duplicate link surfaces as ErrConflict.
func (r *LabelRepo) Attach(ctx context.Context, cardID, labelID uuid.UUID) error {
	var sameBoard bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM cards c
		   JOIN lists l ON c.list_id = l.id
		   JOIN labels lb ON lb.board_id = l.board_id
		   WHERE c.id = $1 AND lb.id = $2
		 )`,
		cardID, labelID,
	).Scan(&sameBoard)
	if err != nil {
		return fmt.Errorf("labelRepo.Attach: same board: %w", err)
	}
	if !sameBoard {
		return fmt.Errorf("labelRepo.Attach: card and label are not on the same board: %w", domain.ErrValidation)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO card_labels (card_id, label_id) VALUES ($1, $2)`,
		cardID, labelID,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("labelRepo.Attach: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("labelRepo.Attach: %w", err)
	}

	return nil
}

func (r *LabelRepo) Detach(ctx context.Context, cardID, labelID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM card_labels WHERE card_id = $1 AND label_id = $2`,
		cardID, labelID,
	)
	if err != nil {
		return fmt.Errorf("labelRepo.Detach: %w", err)
	}

	return nil
}

// Delete removes the label row; the card_labels cascade strips it from every
// card that referenced it in the same statement.
func (r *LabelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("labelRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("labelRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
