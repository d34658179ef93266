package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corkboardhq/corkboard/internal/domain"
)

//go:embed schema.sql
var schema string

// Store owns the bounded connection pool and the per-entity repositories.
// Every multi-row mutation (reorders, draft materialization, duplication)
// runs inside a single transaction opened from this pool.
type Store struct {
	pool        *pgxpool.Pool
	boards      *BoardRepo
	lists       *ListRepo
	cards       *CardRepo
	labels      *LabelRepo
	memberships *MembershipRepo
	users       *UserRepo
	activity    *ActivityRepo
	drafts      *DraftRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:        pool,
		boards:      NewBoardRepo(pool),
		lists:       NewListRepo(pool),
		cards:       NewCardRepo(pool),
		labels:      NewLabelRepo(pool),
		memberships: NewMembershipRepo(pool),
		users:       NewUserRepo(pool),
		activity:    NewActivityRepo(pool),
		drafts:      NewDraftRepo(pool),
	}, nil
}

// Migrate applies the schema. Every statement is idempotent so it is safe to
// run on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Boards() domain.BoardRepository           { return s.boards }
func (s *Store) Lists() domain.ListRepository             { return s.lists }
func (s *Store) Cards() domain.CardRepository             { return s.cards }
func (s *Store) Labels() domain.LabelRepository           { return s.labels }
func (s *Store) Memberships() domain.MembershipRepository { return s.memberships }
func (s *Store) Users() domain.UserRepository             { return s.users }
func (s *Store) Activity() domain.ActivityRepository      { return s.activity }
func (s *Store) Drafts() domain.DraftRepository           { return s.drafts }
