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

// BoardsClient manages project boards.
type BoardsClient struct {
	httpClient *httpclient.Client
}

// NewBoardsClient creates a new boards client.
func NewBoardsClient(httpClient *httpclient.Client) *BoardsClient {
	return &BoardsClient{httpClient: httpClient}
}

// BoardCreateRequest is the payload for creating a board.
type BoardCreateRequest struct {
	Name      string `json:"name"`
	AllAccess *bool  `json:"all_access,omitempty"`
}

// BoardUpdateRequest is the payload for updating a board.
type BoardUpdateRequest struct {
	Name      string `json:"name,omitempty"`
	AllAccess *bool  `json:"all_access,omitempty"`
}

// List fetches one page of boards.
func (c *BoardsClient) List(ctx context.Context, query url.Values) (*ListPage[fizzy.Board], error) {
	return listPage[fizzy.Board](ctx, c.httpClient, "/boards", query)
}

// ListAll fetches every board across all pages. A positive limit caps the
// result.
func (c *BoardsClient) ListAll(ctx context.Context, limit int) ([]fizzy.Board, error) {
	return listAll[fizzy.Board](ctx, c.httpClient, "/boards", nil, limit)
}

// Get retrieves a board by ID.
func (c *BoardsClient) Get(ctx context.Context, boardID int64) (*fizzy.Board, error) {
	path := "/boards/" + strconv.FormatInt(boardID, 10)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting board: %w", err)
	}

	var board fizzy.Board

	err = json.Unmarshal(resp.Body, &board)
	if err != nil {
		return nil, fmt.Errorf("parsing board response: %w", err)
	}

	return &board, nil
}

// Create creates a board. The API answers a bodiless 201 with a Location
// header; the pipeline follows it, so the returned body is the new board.
func (c *BoardsClient) Create(ctx context.Context, request *BoardCreateRequest) (*fizzy.Board, error) {
	resp, err := c.httpClient.Post(ctx, "/boards", request)
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}

	var board fizzy.Board

	err = json.Unmarshal(resp.Body, &board)
	if err != nil {
		return nil, fmt.Errorf("parsing board response: %w", err)
	}

	return &board, nil
}

// Update updates a board.
func (c *BoardsClient) Update(ctx context.Context, boardID int64, request *BoardUpdateRequest) (*fizzy.Board, error) {
	path := "/boards/" + strconv.FormatInt(boardID, 10)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating board: %w", err)
	}

	var board fizzy.Board

	err = json.Unmarshal(resp.Body, &board)
	if err != nil {
		return nil, fmt.Errorf("parsing board response: %w", err)
	}

	return &board, nil
}

// Delete deletes a board.
func (c *BoardsClient) Delete(ctx context.Context, boardID int64) error {
	path := "/boards/" + strconv.FormatInt(boardID, 10)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}

	return nil
}
