// Package client is the Go client library for a Corkboard server. It keeps a
// local copy of one board's nested state, applies drag-and-drop reorders
// optimistically, and reconciles with the server over the realtime channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card mirrors the server's card representation.
type Card struct {
	ID          uuid.UUID   `json:"id"`
	ListID      uuid.UUID   `json:"list_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Position    int         `json:"position"`
	Labels      []uuid.UUID `json:"labels"`
	Assignees   []uuid.UUID `json:"assignees"`
}

// List is a board column with its cards in position order.
type List struct {
	ID       uuid.UUID `json:"id"`
	BoardID  uuid.UUID `json:"board_id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`
	Cards    []*Card   `json:"cards"`
}

// Label mirrors the server's label representation.
type Label struct {
	ID      uuid.UUID `json:"id"`
	BoardID uuid.UUID `json:"board_id"`
	Name    string    `json:"name"`
	Color   string    `json:"color"`
}

// Member is a user with access to the board.
type Member struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   string    `json:"role"`
}

// Board is the full nested board state as served by GET /boards/{id}.
type Board struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
	Role    string    `json:"role"`
	Lists   []*List   `json:"lists"`
	Labels  []*Label  `json:"labels"`
	Members []*Member `json:"members"`
}

// Client is a thin HTTP client for the Corkboard API. The zero value is not
// usable; construct with New.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a Client for the server at baseURL (scheme and host, no path)
// authenticating with the given bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// FetchBoard retrieves the full nested state of one board.
func (c *Client) FetchBoard(ctx context.Context, boardID uuid.UUID) (*Board, error) {
	var b Board
	if err := c.do(ctx, http.MethodGet, "/api/v1/boards/"+boardID.String(), nil, &b); err != nil {
		return nil, fmt.Errorf("client.FetchBoard: %w", err)
	}
	return &b, nil
}

// ReorderLists submits the full list order for a board.
func (c *Client) ReorderLists(ctx context.Context, boardID uuid.UUID, listIDs []uuid.UUID) error {
	body := struct {
		ListIDs []uuid.UUID `json:"list_ids"`
	}{ListIDs: listIDs}

	if err := c.do(ctx, http.MethodPut, "/api/v1/boards/"+boardID.String()+"/lists", body, nil); err != nil {
		return fmt.Errorf("client.ReorderLists: %w", err)
	}
	return nil
}

// ReorderCards submits the full card order for a list. Cards moving in from
// another list are adopted by the destination.
func (c *Client) ReorderCards(ctx context.Context, listID uuid.UUID, cardIDs []uuid.UUID) error {
	body := struct {
		CardIDs []uuid.UUID `json:"card_ids"`
	}{CardIDs: cardIDs}

	if err := c.do(ctx, http.MethodPut, "/api/v1/lists/"+listID.String()+"/cards", body, nil); err != nil {
		return fmt.Errorf("client.ReorderCards: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Huma error bodies carry a human-readable detail field.
		var problem struct {
			Detail string `json:"detail"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &problem)
		msg := problem.Detail
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
