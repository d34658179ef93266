package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type ListRepo struct {
	pool *pgxpool.Pool
}

func NewListRepo(pool *pgxpool.Pool) *ListRepo {
	return &ListRepo{pool: pool}
}

// Create inserts the list at the next board position. The board row is locked
// for the duration of the transaction so two concurrent creates cannot read
// the same max(position).
func (r *ListRepo) Create(ctx context.Context, l *domain.List) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("listRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var boardID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM boards WHERE id = $1 FOR UPDATE`, l.BoardID,
	).Scan(&boardID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("listRepo.Create: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("listRepo.Create: lock board: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM lists WHERE board_id = $1`, l.BoardID,
	).Scan(&l.Position)
	if err != nil {
		return fmt.Errorf("listRepo.Create: next position: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO lists (id, board_id, name, position, created_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.BoardID, l.Name, l.Position, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("listRepo.Create: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("listRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *ListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	var l domain.List

	err := r.pool.QueryRow(ctx,
		`SELECT id, board_id, name, position, created_at FROM lists WHERE id = $1`, id,
	).Scan(&l.ID, &l.BoardID, &l.Name, &l.Position, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("listRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("listRepo.GetByID: %w", err)
	}

	return &l, nil
}

// Reorder assigns position = index for every list in ids, in one transaction.
// Lists not named in ids keep their positions. Either every write commits or
// none do.
func (r *ListRepo) Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("listRepo.Reorder: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var locked uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM boards WHERE id = $1 FOR UPDATE`, boardID,
	).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("listRepo.Reorder: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("listRepo.Reorder: lock board: %w", err)
	}

	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE lists SET position = $1 WHERE id = $2 AND board_id = $3`,
			i, id, boardID,
		); err != nil {
			return fmt.Errorf("listRepo.Reorder: position %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("listRepo.Reorder: commit: %w", err)
	}

	return nil
}

func (r *ListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
