package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

type CardRepo struct {
	pool *pgxpool.Pool
}

func NewCardRepo(pool *pgxpool.Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

// Create inserts the card at the next list position. The list row is locked
// for the duration of the transaction so two concurrent creates cannot read
// the same max(position).
func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cardRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := insertCard(ctx, tx, c); err != nil {
		return fmt.Errorf("cardRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("cardRepo.Create: commit: %w", err)
	}

	return nil
}

// insertCard locks the parent list, computes the next position and inserts.
// Shared with the draft materializer so both paths allocate positions the
// same way.
func insertCard(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	var listID uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT id FROM lists WHERE id = $1 FOR UPDATE`, c.ListID,
	).Scan(&listID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock list: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM cards WHERE list_id = $1`, c.ListID,
	).Scan(&c.Position)
	if err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	checklist, err := json.Marshal(c.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}
	if c.Checklist == nil {
		checklist = []byte("[]")
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO cards (id, list_id, title, description, due_date, checklist, position, created_at, updated_at, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.ListID, c.Title, c.Description, c.DueDate, checklist,
		c.Position, c.CreatedAt, c.UpdatedAt, c.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	return nil
}

func (r *CardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	c := &domain.Card{Labels: make([]uuid.UUID, 0), Assignees: make([]uuid.UUID, 0)}
	var checklist []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, list_id, title, description, due_date, checklist, position, created_at, updated_at, updated_by
		 FROM cards WHERE id = $1`,
		id,
	).Scan(
		&c.ID, &c.ListID, &c.Title, &c.Description, &c.DueDate, &checklist,
		&c.Position, &c.CreatedAt, &c.UpdatedAt, &c.UpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	if err := json.Unmarshal(checklist, &c.Checklist); err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: unmarshal checklist: %w", err)
	}

	if err := r.loadLinks(ctx, c); err != nil {
		return nil, fmt.Errorf("cardRepo.GetByID: %w", err)
	}

	return c, nil
}

func (r *CardRepo) loadLinks(ctx context.Context, c *domain.Card) error {
	rows, err := r.pool.Query(ctx,
		`SELECT label_id FROM card_labels WHERE card_id = $1`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan label: %w", err)
		}
		c.Labels = append(c.Labels, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("labels rows: %w", err)
	}

	arows, err := r.pool.Query(ctx,
		`SELECT user_id FROM card_assignees WHERE card_id = $1`, c.ID,
	)
	if err != nil {
		return fmt.Errorf("assignees: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var id uuid.UUID
		if err := arows.Scan(&id); err != nil {
			return fmt.Errorf("scan assignee: %w", err)
		}
		c.Assignees = append(c.Assignees, id)
	}
	if err := arows.Err(); err != nil {
		return fmt.Errorf("assignees rows: %w", err)
	}

	return nil
}

func (r *CardRepo) BoardOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var boardID uuid.UUID

	err := r.pool.QueryRow(ctx,
		`SELECT l.board_id FROM cards c JOIN lists l ON c.list_id = l.id WHERE c.id = $1`,
		id,
	).Scan(&boardID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("cardRepo.BoardOf: %w", domain.ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("cardRepo.BoardOf: %w", err)
	}

	return boardID, nil
}

func (r *CardRepo) Update(ctx context.Context, c *domain.Card) error {
	checklist, err := json.Marshal(c.Checklist)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: marshal checklist: %w", err)
	}
	if c.Checklist == nil {
		checklist = []byte("[]")
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE cards SET title = $1, description = $2, due_date = $3, checklist = $4,
		        updated_at = now(), updated_by = $5
		 WHERE id = $6`,
		c.Title, c.Description, c.DueDate, checklist, c.UpdatedBy, c.ID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// Reorder assigns position = index for every card in ids and adopts each card
// into listID, all in one transaction. A card moving between lists gets its
// list_id rewritten here; the caller issues a second Reorder for the source
// list to close the gap. Adoption never crosses boards: a card id whose list
// belongs to a different board fails the whole call with ErrValidation.
func (r *CardRepo) Reorder(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cardRepo.Reorder: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var boardID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT board_id FROM lists WHERE id = $1 FOR UPDATE`, listID,
	).Scan(&boardID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("cardRepo.Reorder: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("cardRepo.Reorder: lock list: %w", err)
	}

	for i, id := range ids {
		tag, err := tx.Exec(ctx,
			`UPDATE cards SET position = $1, list_id = $2, updated_at = now()
			 WHERE id = $3 AND list_id IN (SELECT id FROM lists WHERE board_id = $4)`,
			i, listID, id, boardID,
		)
		if err != nil {
			return fmt.Errorf("cardRepo.Reorder: position %d: %w", i, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("cardRepo.Reorder: card %s is not on this board: %w", id, domain.ErrValidation)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("cardRepo.Reorder: commit: %w", err)
	}

	return nil
}

func (r *CardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cardRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cardRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// Duplicate copies a card into the same list at the next position, including
// its label links, in one transaction.
func (r *CardRepo) Duplicate(ctx context.Context, id, actorID uuid.UUID) (*domain.Card, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	src := &domain.Card{}
	var checklist []byte
	err = tx.QueryRow(ctx,
		`SELECT list_id, title, description, due_date, checklist FROM cards WHERE id = $1`,
		id,
	).Scan(&src.ListID, &src.Title, &src.Description, &src.DueDate, &checklist)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cardRepo.Duplicate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: source: %w", err)
	}
	if err := json.Unmarshal(checklist, &src.Checklist); err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: unmarshal checklist: %w", err)
	}

	now := time.Now()
	copied := &domain.Card{
		ID:          uuid.New(),
		ListID:      src.ListID,
		Title:       src.Title,
		Description: src.Description,
		DueDate:     src.DueDate,
		Checklist:   src.Checklist,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedBy:   &actorID,
		Labels:      make([]uuid.UUID, 0),
		Assignees:   make([]uuid.UUID, 0),
	}

	if err := insertCard(ctx, tx, copied); err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: %w", err)
	}

	rows, err := tx.Query(ctx,
		`INSERT INTO card_labels (card_id, label_id)
		 SELECT $1, label_id FROM card_labels WHERE card_id = $2
		 RETURNING label_id`,
		copied.ID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: copy labels: %w", err)
	}
	for rows.Next() {
		var labelID uuid.UUID
		if err := rows.Scan(&labelID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("cardRepo.Duplicate: scan label: %w", err)
		}
		copied.Labels = append(copied.Labels, labelID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: labels rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("cardRepo.Duplicate: commit: %w", err)
	}

	return copied, nil
}

// Assign links a user to a card. The user must be the board owner or a member
// of the card's board; anything else is a validation failure.
func (r *CardRepo) Assign(ctx context.Context, cardID, userID uuid.UUID) error {
	var standing bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM cards c
		   JOIN lists l ON c.list_id = l.id
		   JOIN boards b ON l.board_id = b.id
		   LEFT JOIN board_members m ON m.board_id = b.id AND m.user_id = $2
		   WHERE c.id = $1 AND (b.owner_id = $2 OR m.user_id IS NOT NULL)
		 )`,
		cardID, userID,
	).Scan(&standing)
	if err != nil {
		return fmt.Errorf("cardRepo.Assign: standing: %w", err)
	}
	if !standing {
		return fmt.Errorf("cardRepo.Assign: user is not a board member: %w", domain.ErrValidation)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO card_assignees (card_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Assign: %w", err)
	}

	return nil
}

func (r *CardRepo) Unassign(ctx context.Context, cardID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM card_assignees WHERE card_id = $1 AND user_id = $2`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("cardRepo.Unassign: %w", err)
	}

	return nil
}
