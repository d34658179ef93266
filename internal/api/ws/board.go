package ws

import "github.com/google/uuid"

// EventBoardUpdated is the only event type the board channel carries. It has
// no delta payload on purpose: subscribers refetch the full board state,
// which sidesteps merge logic entirely.
const EventBoardUpdated = "BOARD_UPDATED"

// BoardEvent is the wire form of a realtime board change signal.
type BoardEvent struct {
	Type    string    `json:"type"`
	BoardID uuid.UUID `json:"board_id"`
}
