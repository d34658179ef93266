package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"
)

const eventBoardUpdated = "BOARD_UPDATED"

// Listen joins the board's realtime channel and refreshes local state every
// time the server signals a change. It blocks until ctx is canceled,
// reconnecting with backoff after transport errors. Events carry no payload
// beyond the signal; reconciliation is always a full refetch.
func (s *BoardState) Listen(ctx context.Context) error {
	backoff := time.Second

	for {
		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Warn().Err(err).Str("board_id", s.boardID.String()).Msg("board subscription dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *BoardState) listenOnce(ctx context.Context) error {
	url := wsURL(s.api.baseURL) + "/ws/board/" + s.boardID.String()

	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + s.api.token}},
	})
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Catch up on anything that changed while disconnected.
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &event); err != nil {
			log.Debug().Err(err).Msg("ignoring malformed board event")
			continue
		}
		if event.Type != eventBoardUpdated {
			continue
		}

		if err := s.Refresh(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Warn().Err(err).Str("board_id", s.boardID.String()).Msg("board refetch failed")
		}
	}
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
