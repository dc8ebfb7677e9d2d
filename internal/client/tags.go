package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// TagsClient manages account tags and card tagging.
type TagsClient struct {
	httpClient *httpclient.Client
}

// NewTagsClient creates a new tags client.
func NewTagsClient(httpClient *httpclient.Client) *TagsClient {
	return &TagsClient{httpClient: httpClient}
}

// List fetches a page of account tags.
func (c *TagsClient) List(ctx context.Context, query url.Values) (*ListPage[fizzy.Tag], error) {
	return listPage[fizzy.Tag](ctx, c.httpClient, "/tags", query)
}

// ListAll fetches account tags across pages, capped at limit when limit > 0.
func (c *TagsClient) ListAll(ctx context.Context, limit int) ([]fizzy.Tag, error) {
	return listAll[fizzy.Tag](ctx, c.httpClient, "/tags", nil, limit)
}

// Tag attaches a tag to a card by title. The server creates the tag on first
// use.
func (c *TagsClient) Tag(ctx context.Context, cardNumber int, title string) (*fizzy.Tag, error) {
	body := map[string]string{"title": title}

	resp, err := c.httpClient.Post(ctx, cardPath(cardNumber)+"/tags", body)
	if err != nil {
		return nil, fmt.Errorf("tagging card: %w", err)
	}

	var tag fizzy.Tag

	err = json.Unmarshal(resp.Body, &tag)
	if err != nil {
		return nil, fmt.Errorf("parsing tag response: %w", err)
	}

	return &tag, nil
}

// Untag removes a tag from a card by title.
func (c *TagsClient) Untag(ctx context.Context, cardNumber int, title string) error {
	path := cardPath(cardNumber) + "/tags/" + url.PathEscape(title)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("untagging card: %w", err)
	}

	return nil
}
