package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Boards() domain.BoardRepository
	Lists() domain.ListRepository
	Cards() domain.CardRepository
	Labels() domain.LabelRepository
	Memberships() domain.MembershipRepository
	Users() domain.UserRepository
	Activity() domain.ActivityRepository
	Drafts() domain.DraftRepository
}

// Authorizer resolves a user's effective role on a board and authorizes
// actions against it. *access.Gate satisfies this interface.
type Authorizer interface {
	Resolve(ctx context.Context, userID, boardID uuid.UUID) (domain.Role, error)
	Require(ctx context.Context, userID, boardID uuid.UUID, action domain.Action) (domain.Role, error)
}

// Notifier fans a board change signal out to subscribed clients.
// *ws.Hub satisfies this interface.
type Notifier interface {
	NotifyBoard(ctx context.Context, boardID uuid.UUID) error
}

// TaskParser is the external text-understanding collaborator.
// *ai.Client satisfies this interface.
type TaskParser interface {
	ParseTask(ctx context.Context, text string) (*domain.CardDraft, error)
	GenerateDescription(ctx context.Context, title string) (string, error)
}
