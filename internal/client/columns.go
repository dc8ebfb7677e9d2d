package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// ColumnsClient manages the columns of a board.
type ColumnsClient struct {
	httpClient *httpclient.Client
}

// NewColumnsClient creates a new columns client.
func NewColumnsClient(httpClient *httpclient.Client) *ColumnsClient {
	return &ColumnsClient{httpClient: httpClient}
}

// ColumnCreateRequest is the payload for creating a column.
type ColumnCreateRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ColumnUpdateRequest is the payload for updating a column.
type ColumnUpdateRequest struct {
	Name     string `json:"name,omitempty"`
	Color    string `json:"color,omitempty"`
	Position *int   `json:"position,omitempty"`
}

func boardColumnsPath(boardID int64) string {
	return "/boards/" + strconv.FormatInt(boardID, 10) + "/columns"
}

// List fetches every column of a board. Column sets are small; the endpoint
// does not paginate.
func (c *ColumnsClient) List(ctx context.Context, boardID int64) ([]fizzy.Column, error) {
	resp, err := c.httpClient.Get(ctx, boardColumnsPath(boardID), nil)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}

	var columns []fizzy.Column

	err = json.Unmarshal(resp.Body, &columns)
	if err != nil {
		return nil, fmt.Errorf("parsing columns response: %w", err)
	}

	return columns, nil
}

// Get retrieves a column.
func (c *ColumnsClient) Get(ctx context.Context, boardID, columnID int64) (*fizzy.Column, error) {
	path := boardColumnsPath(boardID) + "/" + strconv.FormatInt(columnID, 10)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting column: %w", err)
	}

	var column fizzy.Column

	err = json.Unmarshal(resp.Body, &column)
	if err != nil {
		return nil, fmt.Errorf("parsing column response: %w", err)
	}

	return &column, nil
}

// Create adds a column to a board.
func (c *ColumnsClient) Create(ctx context.Context, boardID int64, request *ColumnCreateRequest) (*fizzy.Column, error) {
	resp, err := c.httpClient.Post(ctx, boardColumnsPath(boardID), request)
	if err != nil {
		return nil, fmt.Errorf("creating column: %w", err)
	}

	var column fizzy.Column

	err = json.Unmarshal(resp.Body, &column)
	if err != nil {
		return nil, fmt.Errorf("parsing column response: %w", err)
	}

	return &column, nil
}

// Update updates a column's name, color, or position.
func (c *ColumnsClient) Update(ctx context.Context, boardID, columnID int64, request *ColumnUpdateRequest) (*fizzy.Column, error) {
	path := boardColumnsPath(boardID) + "/" + strconv.FormatInt(columnID, 10)

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating column: %w", err)
	}

	var column fizzy.Column

	err = json.Unmarshal(resp.Body, &column)
	if err != nil {
		return nil, fmt.Errorf("parsing column response: %w", err)
	}

	return &column, nil
}

// Delete removes a column.
func (c *ColumnsClient) Delete(ctx context.Context, boardID, columnID int64) error {
	path := boardColumnsPath(boardID) + "/" + strconv.FormatInt(columnID, 10)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}

	return nil
}
