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

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Get(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error) {
	var m domain.Membership
	var role string

	err := r.pool.QueryRow(ctx,
		`SELECT board_id, user_id, role, created_at FROM board_members
		 WHERE board_id = $1 AND user_id = $2`,
		boardID, userID,
	).Scan(&m.BoardID, &m.UserID, &role, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membershipRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.Get: %w", err)
	}
	m.Role = domain.NormalizeRole(role)

	return &m, nil
}

func (r *MembershipRepo) Add(ctx context.Context, m *domain.Membership) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO board_members (board_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`,
		m.BoardID, m.UserID, m.Role, m.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("membershipRepo.Add: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("membershipRepo.Add: %w", err)
	}

	return nil
}
