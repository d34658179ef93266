package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownID reports a dragged ID that is neither a list nor a card in the
// current board state.
var ErrUnknownID = errors.New("id not found in board state")

// BoardState holds one board's nested state and applies drag-and-drop moves
// optimistically: the move is visible locally before the server confirms it,
// and rolls back to the last server-confirmed snapshot if the server rejects
// it. Safe for concurrent use.
type BoardState struct {
	mu      sync.Mutex
	api     *Client
	boardID uuid.UUID

	// current is the working copy shown to the caller. lastGood is the most
	// recent state the server confirmed; it is what a failed move reverts to.
	current  *Board
	lastGood *Board
}

// NewBoardState creates an empty state for the given board. Call Refresh to
// load it before the first move.
func NewBoardState(api *Client, boardID uuid.UUID) *BoardState {
	return &BoardState{api: api, boardID: boardID}
}

// Refresh replaces local state with the server's current board.
func (s *BoardState) Refresh(ctx context.Context) error {
	b, err := s.api.FetchBoard(ctx, s.boardID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = b
	s.lastGood = b.clone()
	s.mu.Unlock()
	return nil
}

// Board returns a deep copy of the current state, or nil before the first
// Refresh.
func (s *BoardState) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.clone()
}

// Move applies a drag of draggedID to position toIndex. The drag type follows
// from which collection holds the id: a list id reorders the board's lists
// and toListID is ignored, a card id moves the card into toListID.
func (s *BoardState) Move(ctx context.Context, draggedID, toListID uuid.UUID, toIndex int) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return errors.New("board state not loaded")
	}
	isList := s.current.list(draggedID) != nil
	isCard := !isList && s.current.holder(draggedID) != nil
	s.mu.Unlock()

	switch {
	case isList:
		return s.MoveList(ctx, draggedID, toIndex)
	case isCard:
		return s.MoveCard(ctx, draggedID, toListID, toIndex)
	default:
		return ErrUnknownID
	}
}

// MoveList moves a list to toIndex among the board's lists, optimistically.
func (s *BoardState) MoveList(ctx context.Context, listID uuid.UUID, toIndex int) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return errors.New("board state not loaded")
	}

	next := s.current.clone()
	l := next.list(listID)
	if l == nil {
		s.mu.Unlock()
		return fmt.Errorf("list %s: %w", listID, ErrUnknownID)
	}

	next.Lists = moveElement(next.Lists, l, toIndex)
	for i, el := range next.Lists {
		el.Position = i
	}

	order := make([]uuid.UUID, len(next.Lists))
	for i, el := range next.Lists {
		order[i] = el.ID
	}

	s.current = next
	s.mu.Unlock()

	if err := s.api.ReorderLists(ctx, s.boardID, order); err != nil {
		s.revert()
		return err
	}

	s.commit()
	return nil
}

// MoveCard moves a card into toListID at toIndex, optimistically. A cross-list
// move sends two reorders: the source list without the card, then the
// destination including it, so the destination call performs the adoption.
func (s *BoardState) MoveCard(ctx context.Context, cardID, toListID uuid.UUID, toIndex int) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return errors.New("board state not loaded")
	}

	next := s.current.clone()
	src := next.holder(cardID)
	dst := next.list(toListID)
	if src == nil {
		s.mu.Unlock()
		return fmt.Errorf("card %s: %w", cardID, ErrUnknownID)
	}
	if dst == nil {
		s.mu.Unlock()
		return fmt.Errorf("list %s: %w", toListID, ErrUnknownID)
	}

	var card *Card
	for i, c := range src.Cards {
		if c.ID == cardID {
			card = c
			src.Cards = append(src.Cards[:i], src.Cards[i+1:]...)
			break
		}
	}
	card.ListID = dst.ID
	dst.Cards = insertElement(dst.Cards, card, toIndex)
	for i, c := range src.Cards {
		c.Position = i
	}
	for i, c := range dst.Cards {
		c.Position = i
	}

	crossList := src.ID != dst.ID
	srcOrder := cardOrder(src)
	dstOrder := cardOrder(dst)

	s.current = next
	s.mu.Unlock()

	if crossList {
		if err := s.api.ReorderCards(ctx, src.ID, srcOrder); err != nil {
			s.revert()
			return err
		}
	}
	if err := s.api.ReorderCards(ctx, dst.ID, dstOrder); err != nil {
		s.revert()
		return err
	}

	s.commit()
	return nil
}

// commit promotes the working copy to the confirmed snapshot.
func (s *BoardState) commit() {
	s.mu.Lock()
	s.lastGood = s.current.clone()
	s.mu.Unlock()
}

// revert discards the working copy in favor of the confirmed snapshot.
func (s *BoardState) revert() {
	s.mu.Lock()
	s.current = s.lastGood.clone()
	s.mu.Unlock()
}

func (b *Board) list(id uuid.UUID) *List {
	for _, l := range b.Lists {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// holder returns the list containing the given card id.
func (b *Board) holder(cardID uuid.UUID) *List {
	for _, l := range b.Lists {
		for _, c := range l.Cards {
			if c.ID == cardID {
				return l
			}
		}
	}
	return nil
}

func (b *Board) clone() *Board {
	if b == nil {
		return nil
	}
	out := *b
	out.Lists = make([]*List, len(b.Lists))
	for i, l := range b.Lists {
		cl := *l
		cl.Cards = make([]*Card, len(l.Cards))
		for j, c := range l.Cards {
			cc := *c
			cc.Labels = append([]uuid.UUID(nil), c.Labels...)
			cc.Assignees = append([]uuid.UUID(nil), c.Assignees...)
			cl.Cards[j] = &cc
		}
		out.Lists[i] = &cl
	}
	out.Labels = make([]*Label, len(b.Labels))
	for i, l := range b.Labels {
		cp := *l
		out.Labels[i] = &cp
	}
	out.Members = make([]*Member, len(b.Members))
	for i, m := range b.Members {
		cp := *m
		out.Members[i] = &cp
	}
	return &out
}

func cardOrder(l *List) []uuid.UUID {
	out := make([]uuid.UUID, len(l.Cards))
	for i, c := range l.Cards {
		out[i] = c.ID
	}
	return out
}

func moveElement[T comparable](s []T, el T, to int) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if v != el {
			out = append(out, v)
		}
	}
	return insertElement(out, el, to)
}

func insertElement[T any](s []T, el T, at int) []T {
	if at < 0 {
		at = 0
	}
	if at > len(s) {
		at = len(s)
	}
	s = append(s, el)
	copy(s[at+1:], s[at:])
	s[at] = el
	return s
}
