package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// CommentsClient manages card comments.
type CommentsClient struct {
	httpClient *httpclient.Client
}

// NewCommentsClient creates a new comments client.
func NewCommentsClient(httpClient *httpclient.Client) *CommentsClient {
	return &CommentsClient{httpClient: httpClient}
}

// CommentRequest is the payload for creating or updating a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// List fetches every comment on a card, following pagination.
func (c *CommentsClient) List(ctx context.Context, cardNumber int) ([]fizzy.Comment, error) {
	return listAll[fizzy.Comment](ctx, c.httpClient, cardPath(cardNumber)+"/comments", nil, 0)
}

// Get retrieves a comment.
func (c *CommentsClient) Get(ctx context.Context, commentID int64) (*fizzy.Comment, error) {
	resp, err := c.httpClient.Get(ctx, commentIDPath(commentID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}

	return parseComment(resp.Body)
}

// Create posts a comment on a card.
func (c *CommentsClient) Create(ctx context.Context, cardNumber int, request *CommentRequest) (*fizzy.Comment, error) {
	resp, err := c.httpClient.Post(ctx, cardPath(cardNumber)+"/comments", request)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	return parseComment(resp.Body)
}

// Update edits a comment body.
func (c *CommentsClient) Update(ctx context.Context, commentID int64, request *CommentRequest) (*fizzy.Comment, error) {
	resp, err := c.httpClient.Put(ctx, commentIDPath(commentID), request)
	if err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	return parseComment(resp.Body)
}

// Delete removes a comment.
func (c *CommentsClient) Delete(ctx context.Context, commentID int64) error {
	_, err := c.httpClient.Delete(ctx, commentIDPath(commentID))
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	return nil
}

func commentIDPath(commentID int64) string {
	return "/comments/" + strconv.FormatInt(commentID, 10)
}

func parseComment(body []byte) (*fizzy.Comment, error) {
	var comment fizzy.Comment

	err := json.Unmarshal(body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &comment, nil
}
