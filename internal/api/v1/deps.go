package v1

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
)

// Deps bundles everything the mutation handlers need: the store, the
// permission gate, the realtime notifier and the AI collaborator.
type Deps struct {
	Store    DataStore
	Gate     Authorizer
	Notifier Notifier
	Parser   TaskParser
}

// identity pulls the authenticated user from the request context.
func identity(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	return userID, nil
}

// mapError translates domain sentinel errors into HTTP errors.
func mapError(err error, msg string) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return huma.Error401Unauthorized(msg)
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrAccessDenied):
		return huma.Error403Forbidden(msg)
	case errors.Is(err, domain.ErrValidation):
		return huma.Error400BadRequest(msg)
	case errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(msg)
	case errors.Is(err, domain.ErrUpstream):
		return huma.Error502BadGateway(msg)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

// notify publishes a board change signal after a committed mutation.
// Best-effort: a broadcast failure is logged, never surfaced.
func (d *Deps) notify(boardID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.Notifier.NotifyBoard(ctx, boardID); err != nil {
		log.Warn().Err(err).Str("board_id", boardID.String()).Msg("board notify failed")
	}
}

// logActivity records an activity entry in the background. Fire-and-forget:
// it must never block or fail the mutation that produced it.
func (d *Deps) logActivity(boardID, userID uuid.UUID, cardID *uuid.UUID, description string) {
	entry := &domain.ActivityEntry{
		ID:          uuid.New(),
		BoardID:     boardID,
		UserID:      userID,
		CardID:      cardID,
		Description: description,
		CreatedAt:   time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := d.Store.Activity().Record(ctx, entry); err != nil {
			log.Warn().Err(err).Str("board_id", boardID.String()).Msg("activity record failed")
		}
	}()
}
