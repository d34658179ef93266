package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers: inject the authenticated user into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID uuid.UUID) context.Context {
	return context.WithValue(context.Background(), middleware.ContextKeyUserID, userID)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	boards      domain.BoardRepository
	lists       domain.ListRepository
	cards       domain.CardRepository
	labels      domain.LabelRepository
	memberships domain.MembershipRepository
	users       domain.UserRepository
	activity    domain.ActivityRepository
	drafts      domain.DraftRepository
}

func (m *mockDataStore) Boards() domain.BoardRepository           { return m.boards }
func (m *mockDataStore) Lists() domain.ListRepository             { return m.lists }
func (m *mockDataStore) Cards() domain.CardRepository             { return m.cards }
func (m *mockDataStore) Labels() domain.LabelRepository           { return m.labels }
func (m *mockDataStore) Memberships() domain.MembershipRepository { return m.memberships }
func (m *mockDataStore) Users() domain.UserRepository             { return m.users }
func (m *mockDataStore) Activity() domain.ActivityRepository      { return m.activity }
func (m *mockDataStore) Drafts() domain.DraftRepository           { return m.drafts }

// nopActivity makes fire-and-forget activity logging a no-op in tests that do
// not assert on it.
type nopActivity struct{}

func (nopActivity) Record(context.Context, *domain.ActivityEntry) error { return nil }
func (nopActivity) ListByBoard(context.Context, uuid.UUID, int) ([]*domain.ActivityEntry, error) {
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock Authorizer
// ---------------------------------------------------------------------------

type mockGate struct {
	resolveFunc func(ctx context.Context, userID, boardID uuid.UUID) (domain.Role, error)
	requireFunc func(ctx context.Context, userID, boardID uuid.UUID, action domain.Action) (domain.Role, error)
}

func (m *mockGate) Resolve(ctx context.Context, userID, boardID uuid.UUID) (domain.Role, error) {
	return m.resolveFunc(ctx, userID, boardID)
}

func (m *mockGate) Require(ctx context.Context, userID, boardID uuid.UUID, action domain.Action) (domain.Role, error) {
	return m.requireFunc(ctx, userID, boardID, action)
}

// allowAs grants every action as the given role.
func allowAs(role domain.Role) *mockGate {
	return &mockGate{
		resolveFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.Role, error) {
			return role, nil
		},
		requireFunc: func(_ context.Context, _, _ uuid.UUID, action domain.Action) (domain.Role, error) {
			if !role.Can(action) {
				return "", domain.ErrAccessDenied
			}
			return role, nil
		},
	}
}

func denyAll(err error) *mockGate {
	return &mockGate{
		resolveFunc: func(context.Context, uuid.UUID, uuid.UUID) (domain.Role, error) {
			return "", err
		},
		requireFunc: func(context.Context, uuid.UUID, uuid.UUID, domain.Action) (domain.Role, error) {
			return "", err
		},
	}
}

// ---------------------------------------------------------------------------
// Mock Notifier
// ---------------------------------------------------------------------------

type mockNotifier struct {
	notified []uuid.UUID
}

func (m *mockNotifier) NotifyBoard(_ context.Context, boardID uuid.UUID) error {
	m.notified = append(m.notified, boardID)
	return nil
}

// ---------------------------------------------------------------------------
// Mock TaskParser
// ---------------------------------------------------------------------------

type mockParser struct {
	parseTaskFunc           func(ctx context.Context, text string) (*domain.CardDraft, error)
	generateDescriptionFunc func(ctx context.Context, title string) (string, error)
}

func (m *mockParser) ParseTask(ctx context.Context, text string) (*domain.CardDraft, error) {
	return m.parseTaskFunc(ctx, text)
}

func (m *mockParser) GenerateDescription(ctx context.Context, title string) (string, error) {
	return m.generateDescriptionFunc(ctx, title)
}

// ---------------------------------------------------------------------------
// Mock BoardRepository
// ---------------------------------------------------------------------------

type mockBoardRepo struct {
	createFunc     func(ctx context.Context, b *domain.Board) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
	getDetailFunc  func(ctx context.Context, id uuid.UUID) (*domain.BoardDetail, error)
	listByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBoardRepo) Create(ctx context.Context, b *domain.Board) error {
	return m.createFunc(ctx, b)
}

func (m *mockBoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBoardRepo) GetDetail(ctx context.Context, id uuid.UUID) (*domain.BoardDetail, error) {
	return m.getDetailFunc(ctx, id)
}

func (m *mockBoardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error) {
	return m.listByUserFunc(ctx, userID)
}

func (m *mockBoardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock ListRepository
// ---------------------------------------------------------------------------

type mockListRepo struct {
	createFunc  func(ctx context.Context, l *domain.List) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.List, error)
	reorderFunc func(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockListRepo) Create(ctx context.Context, l *domain.List) error {
	return m.createFunc(ctx, l)
}

func (m *mockListRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.List, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockListRepo) Reorder(ctx context.Context, boardID uuid.UUID, ids []uuid.UUID) error {
	return m.reorderFunc(ctx, boardID, ids)
}

func (m *mockListRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock CardRepository
// ---------------------------------------------------------------------------

type mockCardRepo struct {
	createFunc    func(ctx context.Context, c *domain.Card) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	boardOfFunc   func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	updateFunc    func(ctx context.Context, c *domain.Card) error
	reorderFunc   func(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) error
	deleteFunc    func(ctx context.Context, id uuid.UUID) error
	duplicateFunc func(ctx context.Context, id, actorID uuid.UUID) (*domain.Card, error)
	assignFunc    func(ctx context.Context, cardID, userID uuid.UUID) error
	unassignFunc  func(ctx context.Context, cardID, userID uuid.UUID) error
}

func (m *mockCardRepo) Create(ctx context.Context, c *domain.Card) error {
	return m.createFunc(ctx, c)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockCardRepo) BoardOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.boardOfFunc(ctx, id)
}

func (m *mockCardRepo) Update(ctx context.Context, c *domain.Card) error {
	return m.updateFunc(ctx, c)
}

func (m *mockCardRepo) Reorder(ctx context.Context, listID uuid.UUID, ids []uuid.UUID) error {
	return m.reorderFunc(ctx, listID, ids)
}

func (m *mockCardRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockCardRepo) Duplicate(ctx context.Context, id, actorID uuid.UUID) (*domain.Card, error) {
	return m.duplicateFunc(ctx, id, actorID)
}

func (m *mockCardRepo) Assign(ctx context.Context, cardID, userID uuid.UUID) error {
	return m.assignFunc(ctx, cardID, userID)
}

func (m *mockCardRepo) Unassign(ctx context.Context, cardID, userID uuid.UUID) error {
	return m.unassignFunc(ctx, cardID, userID)
}

// ---------------------------------------------------------------------------
// Mock LabelRepository
// ---------------------------------------------------------------------------

type mockLabelRepo struct {
	createFunc  func(ctx context.Context, l *domain.Label) error
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	attachFunc  func(ctx context.Context, cardID, labelID uuid.UUID) error
	detachFunc  func(ctx context.Context, cardID, labelID uuid.UUID) error
	deleteFunc  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLabelRepo) Create(ctx context.Context, l *domain.Label) error {
	return m.createFunc(ctx, l)
}

func (m *mockLabelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockLabelRepo) Attach(ctx context.Context, cardID, labelID uuid.UUID) error {
	return m.attachFunc(ctx, cardID, labelID)
}

func (m *mockLabelRepo) Detach(ctx context.Context, cardID, labelID uuid.UUID) error {
	return m.detachFunc(ctx, cardID, labelID)
}

func (m *mockLabelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock MembershipRepository
// ---------------------------------------------------------------------------

type mockMembershipRepo struct {
	getFunc func(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error)
	addFunc func(ctx context.Context, m *domain.Membership) error
}

func (m *mockMembershipRepo) Get(ctx context.Context, boardID, userID uuid.UUID) (*domain.Membership, error) {
	return m.getFunc(ctx, boardID, userID)
}

func (m *mockMembershipRepo) Add(ctx context.Context, mem *domain.Membership) error {
	return m.addFunc(ctx, mem)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

// ---------------------------------------------------------------------------
// Mock ActivityRepository
// ---------------------------------------------------------------------------

type mockActivityRepo struct {
	recordFunc      func(ctx context.Context, e *domain.ActivityEntry) error
	listByBoardFunc func(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.ActivityEntry, error)
}

func (m *mockActivityRepo) Record(ctx context.Context, e *domain.ActivityEntry) error {
	return m.recordFunc(ctx, e)
}

func (m *mockActivityRepo) ListByBoard(ctx context.Context, boardID uuid.UUID, limit int) ([]*domain.ActivityEntry, error) {
	return m.listByBoardFunc(ctx, boardID, limit)
}

// ---------------------------------------------------------------------------
// Mock DraftRepository
// ---------------------------------------------------------------------------

type mockDraftRepo struct {
	materializeFunc func(ctx context.Context, boardID, actorID uuid.UUID, d *domain.CardDraft) (*domain.Card, error)
}

func (m *mockDraftRepo) Materialize(ctx context.Context, boardID, actorID uuid.UUID, d *domain.CardDraft) (*domain.Card, error) {
	return m.materializeFunc(ctx, boardID, actorID, d)
}
