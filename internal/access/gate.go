package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/domain"
)

// Gate resolves a (user, board) pair to an effective role and authorizes
// operations against it. Resolution always hits the store: membership can
// change between requests (an invite may land mid-session), so roles are
// never cached.
type Gate struct {
	boards  domain.BoardRepository
	members domain.MembershipRepository
}

func NewGate(boards domain.BoardRepository, members domain.MembershipRepository) *Gate {
	return &Gate{boards: boards, members: members}
}

// Resolve returns the user's effective role on a board. The board owner is
// always RoleOwner; otherwise the membership row decides. Returns ErrNotFound
// when the board does not exist and ErrAccessDenied when the user has no
// standing on it.
func (g *Gate) Resolve(ctx context.Context, userID, boardID uuid.UUID) (domain.Role, error) {
	b, err := g.boards.GetByID(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("access.Gate.Resolve: %w", err)
	}

	if b.OwnerID == userID {
		return domain.RoleOwner, nil
	}

	m, err := g.members.Get(ctx, boardID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("access.Gate.Resolve: %w", domain.ErrAccessDenied)
	}
	if err != nil {
		return "", fmt.Errorf("access.Gate.Resolve: %w", err)
	}

	return domain.NormalizeRole(string(m.Role)), nil
}

// Require resolves the user's role and checks it grants the action. On
// success the resolved role is returned so handlers can expose it.
func (g *Gate) Require(ctx context.Context, userID, boardID uuid.UUID, action domain.Action) (domain.Role, error) {
	role, err := g.Resolve(ctx, userID, boardID)
	if err != nil {
		return "", err
	}

	if !role.Can(action) {
		return "", fmt.Errorf("access.Gate.Require: role %s cannot %s: %w", role, action, domain.ErrAccessDenied)
	}

	return role, nil
}
