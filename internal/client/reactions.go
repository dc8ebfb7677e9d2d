package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// ReactionsClient manages emoji reactions on comments.
type ReactionsClient struct {
	httpClient *httpclient.Client
}

// NewReactionsClient creates a new reactions client.
func NewReactionsClient(httpClient *httpclient.Client) *ReactionsClient {
	return &ReactionsClient{httpClient: httpClient}
}

// ReactionRequest is the payload for adding a reaction.
type ReactionRequest struct {
	Content string `json:"content"`
}

// List fetches the reactions on a comment. Reaction sets are small; the
// endpoint does not paginate.
func (c *ReactionsClient) List(ctx context.Context, commentID int64) ([]fizzy.Reaction, error) {
	resp, err := c.httpClient.Get(ctx, commentIDPath(commentID)+"/reactions", nil)
	if err != nil {
		return nil, fmt.Errorf("listing reactions: %w", err)
	}

	var reactions []fizzy.Reaction

	err = json.Unmarshal(resp.Body, &reactions)
	if err != nil {
		return nil, fmt.Errorf("parsing reactions response: %w", err)
	}

	return reactions, nil
}

// Add attaches an emoji reaction to a comment.
func (c *ReactionsClient) Add(ctx context.Context, commentID int64, content string) (*fizzy.Reaction, error) {
	resp, err := c.httpClient.Post(ctx, commentIDPath(commentID)+"/reactions", &ReactionRequest{Content: content})
	if err != nil {
		return nil, fmt.Errorf("adding reaction: %w", err)
	}

	var reaction fizzy.Reaction

	err = json.Unmarshal(resp.Body, &reaction)
	if err != nil {
		return nil, fmt.Errorf("parsing reaction response: %w", err)
	}

	return &reaction, nil
}

// Remove deletes a reaction from a comment.
func (c *ReactionsClient) Remove(ctx context.Context, commentID, reactionID int64) error {
	path := commentIDPath(commentID) + "/reactions/" + strconv.FormatInt(reactionID, 10)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("removing reaction: %w", err)
	}

	return nil
}
