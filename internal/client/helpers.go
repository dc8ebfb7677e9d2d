package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
)

// decodeItems unmarshals raw page items into typed resources.
func decodeItems[T any](items []json.RawMessage) ([]T, error) {
	decoded := make([]T, 0, len(items))

	for _, item := range items {
		var value T

		err := json.Unmarshal(item, &value)
		if err != nil {
			return nil, fmt.Errorf("parsing list item: %w", err)
		}

		decoded = append(decoded, value)
	}

	return decoded, nil
}

// ListPage is one typed page of a list endpoint.
type ListPage[T any] struct {
	Items   []T
	HasNext bool
	HasPrev bool
	Next    string
	Prev    string
}

// listPage fetches a single page and decodes its items.
func listPage[T any](ctx context.Context, httpClient *httpclient.Client, path string, query url.Values) (*ListPage[T], error) {
	page, err := httpClient.GetPaginated(ctx, path, query)
	if err != nil {
		return nil, err
	}

	items, err := decodeItems[T](page.Items)
	if err != nil {
		return nil, err
	}

	return &ListPage[T]{
		Items:   items,
		HasNext: page.Links.HasNext(),
		HasPrev: page.Links.HasPrev(),
		Next:    page.Links.Next,
		Prev:    page.Links.Prev,
	}, nil
}

// listAll drains a paginated endpoint into a typed slice. A positive limit
// caps the result.
func listAll[T any](ctx context.Context, httpClient *httpclient.Client, path string, query url.Values, limit int) ([]T, error) {
	items, err := httpClient.GetAll(ctx, path, query, limit)
	if err != nil {
		return nil, err
	}

	return decodeItems[T](items)
}
