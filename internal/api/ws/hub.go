package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/corkboardhq/corkboard/internal/access"
	"github.com/corkboardhq/corkboard/internal/domain"
	"github.com/corkboardhq/corkboard/internal/server/middleware"
	redisstore "github.com/corkboardhq/corkboard/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub. A client joins a
// board's channel for as long as its connection lives; nothing is persisted,
// so subscriptions are rebuilt by clients reconnecting after a restart.
type Hub struct {
	pubsub *redisstore.PubSub
	gate   *access.Gate
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub, gate *access.Gate) *Hub {
	return &Hub{pubsub: pubsub, gate: gate}
}

// ServeBoard handles WebSocket connections for board change signals.
// Subscribes to Redis channel "board:<boardID>" and forwards every message to
// the client. Viewers may subscribe; reads need no mutation rights.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	boardIDStr := chi.URLParam(r, "boardID")
	boardID, err := uuid.Parse(boardIDStr)
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}

	if _, err := h.gate.Require(r.Context(), userID, boardID, domain.ActionView); err != nil {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// The connection is write-only. CloseRead keeps consuming frames so
	// client close and ping are handled, and cancels the context when the
	// peer goes away.
	ctx := conn.CloseRead(r.Context())
	channel := redisstore.BoardChannel(boardID)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// NotifyBoard publishes a change signal to a board's channel. Called once per
// committed mutation. Delivery is best-effort and at-least-once; failures are
// surfaced so callers can log them, never to fail the mutation itself.
func (h *Hub) NotifyBoard(ctx context.Context, boardID uuid.UUID) error {
	payload, err := json.Marshal(BoardEvent{Type: EventBoardUpdated, BoardID: boardID})
	if err != nil {
		return fmt.Errorf("ws.Hub.NotifyBoard: marshal: %w", err)
	}
	if err := h.pubsub.Publish(ctx, redisstore.BoardChannel(boardID), payload); err != nil {
		return fmt.Errorf("ws.Hub.NotifyBoard: %w", err)
	}
	return nil
}
