package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is a minimal board API: one board, canned reorder responses,
// and a record of every reorder call it received.
type fakeServer struct {
	mu            sync.Mutex
	board         *Board
	rejectReorder bool
	listReorders  [][]uuid.UUID
	cardReorders  map[uuid.UUID][][]uuid.UUID
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/boards/{id}", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.board)
	})

	mux.HandleFunc("PUT /api/v1/boards/{id}/lists", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.rejectReorder {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"access denied"}`))
			return
		}
		var body struct {
			ListIDs []uuid.UUID `json:"list_ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.listReorders = append(f.listReorders, body.ListIDs)
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("PUT /api/v1/lists/{id}/cards", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.rejectReorder {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"detail":"access denied"}`))
			return
		}
		listID := uuid.MustParse(r.PathValue("id"))
		var body struct {
			CardIDs []uuid.UUID `json:"card_ids"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.cardReorders == nil {
			f.cardReorders = map[uuid.UUID][][]uuid.UUID{}
		}
		f.cardReorders[listID] = append(f.cardReorders[listID], body.CardIDs)
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func testBoard() *Board {
	boardID := uuid.New()
	todo := &List{ID: uuid.New(), BoardID: boardID, Name: "todo", Position: 0}
	doing := &List{ID: uuid.New(), BoardID: boardID, Name: "doing", Position: 1}

	todo.Cards = []*Card{
		{ID: uuid.New(), ListID: todo.ID, Title: "a", Position: 0},
		{ID: uuid.New(), ListID: todo.ID, Title: "b", Position: 1},
		{ID: uuid.New(), ListID: todo.ID, Title: "c", Position: 2},
	}
	doing.Cards = []*Card{
		{ID: uuid.New(), ListID: doing.ID, Title: "d", Position: 0},
	}

	return &Board{ID: boardID, Name: "test", Lists: []*List{todo, doing}}
}

func newTestState(t *testing.T, f *fakeServer) *BoardState {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	state := NewBoardState(New(srv.URL, "test-token"), f.board.ID)
	require.NoError(t, state.Refresh(context.Background()))
	return state
}

func TestMoveListReordersAndCommits(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)

	todo := f.board.Lists[0]
	doing := f.board.Lists[1]

	require.NoError(t, state.MoveList(context.Background(), doing.ID, 0))

	got := state.Board()
	require.Len(t, got.Lists, 2)
	assert.Equal(t, doing.ID, got.Lists[0].ID)
	assert.Equal(t, todo.ID, got.Lists[1].ID)
	assert.Equal(t, 0, got.Lists[0].Position)
	assert.Equal(t, 1, got.Lists[1].Position)

	require.Len(t, f.listReorders, 1)
	assert.Equal(t, []uuid.UUID{doing.ID, todo.ID}, f.listReorders[0])
}

func TestMoveListRevertsOnRejection(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)
	f.mu.Lock()
	f.rejectReorder = true
	f.mu.Unlock()

	before := state.Board()
	err := state.MoveList(context.Background(), f.board.Lists[1].ID, 0)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	after := state.Board()
	assert.Equal(t, before, after, "rejected move rolls back to the confirmed snapshot")
}

func TestMoveCardWithinList(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)

	todo := f.board.Lists[0]
	cardC := todo.Cards[2]

	require.NoError(t, state.MoveCard(context.Background(), cardC.ID, todo.ID, 0))

	got := state.Board()
	order := cardOrder(got.Lists[0])
	assert.Equal(t, []uuid.UUID{cardC.ID, todo.Cards[0].ID, todo.Cards[1].ID}, order)

	// A same-list move is a single reorder call.
	require.Len(t, f.cardReorders[todo.ID], 1)
	assert.Equal(t, order, f.cardReorders[todo.ID][0])
}

func TestMoveCardAcrossLists(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)

	todo := f.board.Lists[0]
	doing := f.board.Lists[1]
	moved := todo.Cards[1]

	require.NoError(t, state.MoveCard(context.Background(), moved.ID, doing.ID, 1))

	got := state.Board()
	assert.Len(t, got.Lists[0].Cards, 2)
	require.Len(t, got.Lists[1].Cards, 2)
	assert.Equal(t, moved.ID, got.Lists[1].Cards[1].ID)
	assert.Equal(t, doing.ID, got.Lists[1].Cards[1].ListID, "moved card is adopted by the destination")

	// Source first (without the card), then destination (including it).
	require.Len(t, f.cardReorders[todo.ID], 1)
	assert.NotContains(t, f.cardReorders[todo.ID][0], moved.ID)
	require.Len(t, f.cardReorders[doing.ID], 1)
	assert.Contains(t, f.cardReorders[doing.ID][0], moved.ID)

	// Positions are dense per list after the move.
	for _, l := range got.Lists {
		for i, c := range l.Cards {
			assert.Equal(t, i, c.Position)
		}
	}
}

func TestMoveCardRevertsOnRejection(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)
	f.mu.Lock()
	f.rejectReorder = true
	f.mu.Unlock()

	before := state.Board()
	err := state.MoveCard(context.Background(), f.board.Lists[0].Cards[0].ID, f.board.Lists[1].ID, 0)

	require.Error(t, err)
	assert.Equal(t, before, state.Board())
}

func TestMoveDispatchesByCollection(t *testing.T) {
	t.Parallel()

	f := &fakeServer{board: testBoard()}
	state := newTestState(t, f)

	todo := f.board.Lists[0]
	doing := f.board.Lists[1]

	// A list id reorders lists.
	require.NoError(t, state.Move(context.Background(), doing.ID, uuid.Nil, 0))
	require.Len(t, f.listReorders, 1)

	// A card id moves the card.
	require.NoError(t, state.Move(context.Background(), todo.Cards[0].ID, doing.ID, 0))
	require.Len(t, f.cardReorders[doing.ID], 1)

	// Anything else is rejected without a network call.
	err := state.Move(context.Background(), uuid.New(), doing.ID, 0)
	assert.ErrorIs(t, err, ErrUnknownID)
}
