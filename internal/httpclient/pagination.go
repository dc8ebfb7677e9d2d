package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// Page is one page of a list endpoint: the raw items plus the pagination
// links derived from the response actually received.
type Page struct {
	Items []json.RawMessage
	Links fizzy.Links
}

// GetPaginated performs a single GET against a list endpoint and returns
// the page with its links.
func (c *Client) GetPaginated(ctx context.Context, path string, query url.Values) (*Page, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	items, err := decodePageItems(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Page{Items: items, Links: resp.Links}, nil
}

// ItemIterator is a forward-only iterator over a paginated list. Each page
// is fetched lazily when the buffered items run out, by following the next
// link from the response actually received. The iterator terminates when a
// page carries no next link.
type ItemIterator struct {
	ctx     context.Context
	client  *Client
	nextURL string
	query   url.Values
	buffer  []json.RawMessage
	started bool
	err     error
}

// AllPages returns a lazy iterator over every item of a list endpoint.
// Every page fetch goes through the full pipeline, so it is subject to the
// same caching and retry behavior as any GET.
func (c *Client) AllPages(ctx context.Context, path string, query url.Values) *ItemIterator {
	return &ItemIterator{
		ctx:     ctx,
		client:  c,
		nextURL: path,
		query:   query,
	}
}

// HasNext reports whether another item is available, fetching the next page
// if needed. A fetch error makes HasNext return false; the error surfaces
// from the next call to Next.
func (it *ItemIterator) HasNext() bool {
	if it.err != nil {
		return false
	}

	if len(it.buffer) > 0 {
		return true
	}

	for len(it.buffer) == 0 && it.nextURL != "" {
		if err := it.fetchNextPage(); err != nil {
			it.err = err

			return true
		}
	}

	return len(it.buffer) > 0
}

// Next returns the next item, or fizzy.ErrNoMoreItems once the sequence is
// exhausted.
func (it *ItemIterator) Next() (json.RawMessage, error) {
	if it.err != nil {
		err := it.err
		it.err = nil

		return nil, err
	}

	if !it.HasNext() {
		return nil, fizzy.ErrNoMoreItems
	}

	if it.err != nil {
		err := it.err
		it.err = nil

		return nil, err
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All drains the iterator into a slice.
func (it *ItemIterator) All() ([]json.RawMessage, error) {
	var items []json.RawMessage

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to every item, stopping at the first error.
func (it *ItemIterator) ForEach(fn func(item json.RawMessage) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	return nil
}

func (it *ItemIterator) fetchNextPage() error {
	path := it.nextURL
	query := it.query

	if it.started {
		// Follow-up pages use the server-issued next URL verbatim; it
		// already carries its own query string.
		query = nil
	}

	it.started = true

	page, err := it.client.GetPaginated(it.ctx, path, query)
	if err != nil {
		it.nextURL = ""

		return err
	}

	it.buffer = page.Items
	it.nextURL = page.Links.Next

	return nil
}

// GetAll eagerly collects a paginated list. A positive limit caps the
// result to exactly that many items; the page containing the boundary item
// is still fully fetched, but no further pages are requested.
func (c *Client) GetAll(ctx context.Context, path string, query url.Values, limit int) ([]json.RawMessage, error) {
	iterator := c.AllPages(ctx, path, query)

	var items []json.RawMessage

	for iterator.HasNext() {
		item, err := iterator.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if limit > 0 && len(items) >= limit {
			return items[:limit], nil
		}
	}

	return items, nil
}

func decodePageItems(body []byte) ([]json.RawMessage, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var items []json.RawMessage

	err := json.Unmarshal(body, &items)
	if err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return items, nil
}
