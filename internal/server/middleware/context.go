package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// ContextKeyUserID carries the authenticated user's ID.
const ContextKeyUserID contextKey = "user_id"

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(ContextKeyUserID).(uuid.UUID)
	return v, ok
}
