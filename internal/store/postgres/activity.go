package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Record(ctx context.Context, e *domain.ActivityEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, board_id, user_id, card_id, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.BoardID, e.UserID, e.CardID, e.Description, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("activityRepo.Record: %w", err)
	}

	return nil
}

func (r *ActivityRepo) ListByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, board_id, user_id, card_id, description, created_at
		 FROM activity_log WHERE board_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("activityRepo.ListByBoard: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry

		if err := rows.Scan(&e.ID, &e.BoardID, &e.UserID, &e.CardID, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("activityRepo.ListByBoard: scan: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activityRepo.ListByBoard: rows: %w", err)
	}

	return entries, nil
}
