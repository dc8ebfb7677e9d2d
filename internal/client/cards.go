package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// CardsClient manages cards.
type CardsClient struct {
	httpClient *httpclient.Client
}

// NewCardsClient creates a new cards client.
func NewCardsClient(httpClient *httpclient.Client) *CardsClient {
	return &CardsClient{httpClient: httpClient}
}

// CardCreateRequest is the payload for creating a card.
type CardCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ColumnID    *int64 `json:"column_id,omitempty"`
}

// CardUpdateRequest is the payload for updating a card.
type CardUpdateRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// CardFilters narrows card list requests. Zero values are omitted.
type CardFilters struct {
	BoardID  int64
	ColumnID int64
	Assignee string
	Tag      string
	Status   fizzy.CardStatus
}

// Query renders the filters as URL query parameters.
func (f CardFilters) Query() url.Values {
	query := url.Values{}

	if f.BoardID != 0 {
		query.Set("board_id", strconv.FormatInt(f.BoardID, 10))
	}

	if f.ColumnID != 0 {
		query.Set("column_id", strconv.FormatInt(f.ColumnID, 10))
	}

	if f.Assignee != "" {
		query.Set("assignee", f.Assignee)
	}

	if f.Tag != "" {
		query.Set("tag", f.Tag)
	}

	if f.Status != "" {
		query.Set("status", string(f.Status))
	}

	if len(query) == 0 {
		return nil
	}

	return query
}

func cardPath(number int) string {
	return "/cards/" + strconv.Itoa(number)
}

// List fetches one page of cards matching the filters.
func (c *CardsClient) List(ctx context.Context, filters CardFilters) (*ListPage[fizzy.Card], error) {
	return listPage[fizzy.Card](ctx, c.httpClient, "/cards", filters.Query())
}

// ListAll fetches every matching card across all pages. A positive limit
// caps the result.
func (c *CardsClient) ListAll(ctx context.Context, filters CardFilters, limit int) ([]fizzy.Card, error) {
	return listAll[fizzy.Card](ctx, c.httpClient, "/cards", filters.Query(), limit)
}

// Get retrieves a card by its number.
func (c *CardsClient) Get(ctx context.Context, number int) (*fizzy.Card, error) {
	resp, err := c.httpClient.Get(ctx, cardPath(number), nil)
	if err != nil {
		return nil, fmt.Errorf("getting card: %w", err)
	}

	return parseCard(resp.Body)
}

// Create creates a card on a board.
func (c *CardsClient) Create(ctx context.Context, boardID int64, request *CardCreateRequest) (*fizzy.Card, error) {
	path := "/boards/" + strconv.FormatInt(boardID, 10) + "/cards"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	return parseCard(resp.Body)
}

// Update updates a card's title or description.
func (c *CardsClient) Update(ctx context.Context, number int, request *CardUpdateRequest) (*fizzy.Card, error) {
	resp, err := c.httpClient.Put(ctx, cardPath(number), request)
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	return parseCard(resp.Body)
}

// Close closes a card.
func (c *CardsClient) Close(ctx context.Context, number int) error {
	_, err := c.httpClient.Post(ctx, cardPath(number)+"/close", nil)
	if err != nil {
		return fmt.Errorf("closing card: %w", err)
	}

	return nil
}

// Reopen reopens a closed card.
func (c *CardsClient) Reopen(ctx context.Context, number int) error {
	_, err := c.httpClient.Post(ctx, cardPath(number)+"/reopen", nil)
	if err != nil {
		return fmt.Errorf("reopening card: %w", err)
	}

	return nil
}

// Move moves a card to a different column.
func (c *CardsClient) Move(ctx context.Context, number int, columnID int64) (*fizzy.Card, error) {
	body := map[string]int64{"column_id": columnID}

	resp, err := c.httpClient.Put(ctx, cardPath(number)+"/column", body)
	if err != nil {
		return nil, fmt.Errorf("moving card: %w", err)
	}

	return parseCard(resp.Body)
}

// Assign adds a user to the card's assignees.
func (c *CardsClient) Assign(ctx context.Context, number int, userID int64) error {
	body := map[string]int64{"user_id": userID}

	_, err := c.httpClient.Post(ctx, cardPath(number)+"/assignees", body)
	if err != nil {
		return fmt.Errorf("assigning card: %w", err)
	}

	return nil
}

// Unassign removes a user from the card's assignees.
func (c *CardsClient) Unassign(ctx context.Context, number int, userID int64) error {
	path := cardPath(number) + "/assignees/" + strconv.FormatInt(userID, 10)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("unassigning card: %w", err)
	}

	return nil
}

// Delete deletes a card.
func (c *CardsClient) Delete(ctx context.Context, number int) error {
	_, err := c.httpClient.Delete(ctx, cardPath(number))
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	return nil
}

func parseCard(body []byte) (*fizzy.Card, error) {
	var card fizzy.Card

	err := json.Unmarshal(body, &card)
	if err != nil {
		return nil, fmt.Errorf("parsing card response: %w", err)
	}

	return &card, nil
}
