// Package ai talks to the external text-understanding collaborator. The
// service treats it as a black box: free text in, a structured card draft or
// a plain description out. Anything unexpected from the wire is ErrUpstream.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/corkboardhq/corkboard/internal/domain"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// draftWire is the JSON shape the model is prompted to produce.
type draftWire struct {
	Title       string   `json:"title"`
	ListName    string   `json:"list_name"`
	Labels      []string `json:"labels"`
	DueDate     string   `json:"due_date"`
	Description string   `json:"description"`
}

const parsePrompt = `Parse the following task request into JSON with exactly these keys:
"title" (string), "list_name" (string), "labels" (array of strings),
"due_date" (string, YYYY-MM-DD or empty), "description" (string).
Respond with JSON only, no prose, no code fences.

Request: %q`

// ParseTask asks the collaborator to turn free text into a card draft.
// Unparseable output is an upstream failure: the caller must create nothing.
func (c *Client) ParseTask(ctx context.Context, text string) (*domain.CardDraft, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(parsePrompt, text))
	if err != nil {
		return nil, fmt.Errorf("ai.ParseTask: %w", err)
	}

	var wire draftWire
	if err := json.Unmarshal([]byte(stripFences(raw)), &wire); err != nil {
		return nil, fmt.Errorf("ai.ParseTask: decode draft: %w: %w", domain.ErrUpstream, err)
	}

	draft := &domain.CardDraft{
		Title:       strings.TrimSpace(wire.Title),
		ListName:    strings.TrimSpace(wire.ListName),
		Labels:      wire.Labels,
		Description: wire.Description,
	}

	if wire.DueDate != "" {
		due, err := time.Parse("2006-01-02", wire.DueDate)
		if err != nil {
			return nil, fmt.Errorf("ai.ParseTask: due date %q: %w", wire.DueDate, domain.ErrUpstream)
		}
		draft.DueDate = &due
	}

	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("ai.ParseTask: %w: %w", domain.ErrUpstream, err)
	}

	return draft, nil
}

const describePrompt = `Generate a short description for a project management card titled %q.
Mention potential sub-tasks and acceptance criteria. Plain text, at most 40 words.`

// GenerateDescription asks the collaborator for a card description.
func (c *Client) GenerateDescription(ctx context.Context, title string) (string, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(describePrompt, title))
	if err != nil {
		return "", fmt.Errorf("ai.GenerateDescription: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", domain.ErrUpstream, err)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrUpstream, err)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrUpstream)
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

// stripFences removes a Markdown code fence if the model wrapped its JSON in
// one despite the prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
