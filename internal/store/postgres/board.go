package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

func (r *BoardRepo) Create(ctx context.Context, b *domain.Board) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO boards (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		b.ID, b.Name, b.OwnerID, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.Create: %w", err)
	}

	return nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var b domain.Board

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at FROM boards WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.Name, &b.OwnerID, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetByID: %w", err)
	}

	return &b, nil
}

func (r *BoardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.name, 'owner' AS role FROM boards b WHERE b.owner_id = $1
		 UNION ALL
		 SELECT b.id, b.name, m.role FROM boards b
		 JOIN board_members m ON m.board_id = b.id
		 WHERE m.user_id = $1
		 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	var boards []*domain.BoardSummary
	for rows.Next() {
		var s domain.BoardSummary
		var role string

		if err := rows.Scan(&s.ID, &s.Name, &role); err != nil {
			return nil, fmt.Errorf("boardRepo.ListByUser: scan: %w", err)
		}
		s.Role = domain.NormalizeRole(role)
		boards = append(boards, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.ListByUser: rows: %w", err)
	}

	return boards, nil
}

// GetDetail hydrates the full nested board state in one repeatable-read
// transaction so lists, cards and link tables come from a single snapshot.
func (r *BoardRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.BoardDetail, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	detail := &domain.BoardDetail{
		Lists:   make([]*domain.ListTree, 0),
		Labels:  make([]*domain.Label, 0),
		Members: make([]*domain.Member, 0),
	}

	err = tx.QueryRow(ctx,
		`SELECT id, name, owner_id FROM boards WHERE id = $1`, id,
	).Scan(&detail.ID, &detail.Name, &detail.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("boardRepo.GetDetail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: board: %w", err)
	}

	byList, err := r.loadLists(ctx, tx, id, detail)
	if err != nil {
		return nil, err
	}

	byCard, err := r.loadCards(ctx, tx, id, byList)
	if err != nil {
		return nil, err
	}

	if err := r.loadCardLinks(ctx, tx, id, byCard); err != nil {
		return nil, err
	}

	if err := r.loadLabels(ctx, tx, id, detail); err != nil {
		return nil, err
	}

	if err := r.loadMembers(ctx, tx, id, detail); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: commit: %w", err)
	}

	return detail, nil
}

func (r *BoardRepo) loadLists(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, detail *domain.BoardDetail) (map[uuid.UUID]*domain.ListTree, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, board_id, name, position, created_at
		 FROM lists WHERE board_id = $1 ORDER BY position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: lists: %w", err)
	}
	defer rows.Close()

	byList := make(map[uuid.UUID]*domain.ListTree)
	for rows.Next() {
		lt := &domain.ListTree{Cards: make([]*domain.Card, 0)}
		if err := rows.Scan(&lt.ID, &lt.BoardID, &lt.Name, &lt.Position, &lt.CreatedAt); err != nil {
			return nil, fmt.Errorf("boardRepo.GetDetail: scan list: %w", err)
		}
		byList[lt.ID] = lt
		detail.Lists = append(detail.Lists, lt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: lists rows: %w", err)
	}

	return byList, nil
}

func (r *BoardRepo) loadCards(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, byList map[uuid.UUID]*domain.ListTree) (map[uuid.UUID]*domain.Card, error) {
	rows, err := tx.Query(ctx,
		`SELECT c.id, c.list_id, c.title, c.description, c.due_date, c.checklist,
		        c.position, c.created_at, c.updated_at, c.updated_by
		 FROM cards c JOIN lists l ON c.list_id = l.id
		 WHERE l.board_id = $1
		 ORDER BY c.position`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: cards: %w", err)
	}
	defer rows.Close()

	byCard := make(map[uuid.UUID]*domain.Card)
	for rows.Next() {
		c := &domain.Card{Labels: make([]uuid.UUID, 0), Assignees: make([]uuid.UUID, 0)}
		var checklist []byte

		if err := rows.Scan(
			&c.ID, &c.ListID, &c.Title, &c.Description, &c.DueDate, &checklist,
			&c.Position, &c.CreatedAt, &c.UpdatedAt, &c.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("boardRepo.GetDetail: scan card: %w", err)
		}
		if err := json.Unmarshal(checklist, &c.Checklist); err != nil {
			return nil, fmt.Errorf("boardRepo.GetDetail: unmarshal checklist: %w", err)
		}

		byCard[c.ID] = c
		if lt, ok := byList[c.ListID]; ok {
			lt.Cards = append(lt.Cards, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boardRepo.GetDetail: cards rows: %w", err)
	}

	return byCard, nil
}

func (r *BoardRepo) loadCardLinks(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, byCard map[uuid.UUID]*domain.Card) error {
	rows, err := tx.Query(ctx,
		`SELECT cl.card_id, cl.label_id FROM card_labels cl
		 JOIN cards c ON cl.card_id = c.id
		 JOIN lists l ON c.list_id = l.id
		 WHERE l.board_id = $1`,
		boardID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.GetDetail: card labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cardID, labelID uuid.UUID
		if err := rows.Scan(&cardID, &labelID); err != nil {
			return fmt.Errorf("boardRepo.GetDetail: scan card label: %w", err)
		}
		if c, ok := byCard[cardID]; ok {
			c.Labels = append(c.Labels, labelID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("boardRepo.GetDetail: card labels rows: %w", err)
	}

	arows, err := tx.Query(ctx,
		`SELECT ca.card_id, ca.user_id FROM card_assignees ca
		 JOIN cards c ON ca.card_id = c.id
		 JOIN lists l ON c.list_id = l.id
		 WHERE l.board_id = $1`,
		boardID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.GetDetail: assignees: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var cardID, userID uuid.UUID
		if err := arows.Scan(&cardID, &userID); err != nil {
			return fmt.Errorf("boardRepo.GetDetail: scan assignee: %w", err)
		}
		if c, ok := byCard[cardID]; ok {
			c.Assignees = append(c.Assignees, userID)
		}
	}
	if err := arows.Err(); err != nil {
		return fmt.Errorf("boardRepo.GetDetail: assignees rows: %w", err)
	}

	return nil
}

func (r *BoardRepo) loadLabels(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, detail *domain.BoardDetail) error {
	rows, err := tx.Query(ctx,
		`SELECT id, board_id, name, color FROM labels WHERE board_id = $1 ORDER BY name`,
		boardID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.GetDetail: labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.Label
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &l.Color); err != nil {
			return fmt.Errorf("boardRepo.GetDetail: scan label: %w", err)
		}
		detail.Labels = append(detail.Labels, &l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("boardRepo.GetDetail: labels rows: %w", err)
	}

	return nil
}

func (r *BoardRepo) loadMembers(ctx context.Context, tx pgx.Tx, boardID uuid.UUID, detail *domain.BoardDetail) error {
	rows, err := tx.Query(ctx,
		`SELECT u.id, u.email, u.name, 'owner' AS role
		 FROM boards b JOIN users u ON b.owner_id = u.id
		 WHERE b.id = $1
		 UNION ALL
		 SELECT u.id, u.email, u.name, m.role
		 FROM board_members m JOIN users u ON m.user_id = u.id
		 WHERE m.board_id = $1`,
		boardID,
	)
	if err != nil {
		return fmt.Errorf("boardRepo.GetDetail: members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Member
		var role string
		if err := rows.Scan(&m.UserID, &m.Email, &m.Name, &role); err != nil {
			return fmt.Errorf("boardRepo.GetDetail: scan member: %w", err)
		}
		m.Role = domain.NormalizeRole(role)
		detail.Members = append(detail.Members, &m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("boardRepo.GetDetail: members rows: %w", err)
	}

	return nil
}

func (r *BoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("boardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
