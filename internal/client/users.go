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

// UsersClient manages account members.
type UsersClient struct {
	httpClient *httpclient.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *httpclient.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// List fetches a page of account users.
func (c *UsersClient) List(ctx context.Context, query url.Values) (*ListPage[fizzy.User], error) {
	return listPage[fizzy.User](ctx, c.httpClient, "/users", query)
}

// ListAll fetches account users across pages, capped at limit when limit > 0.
func (c *UsersClient) ListAll(ctx context.Context, limit int) ([]fizzy.User, error) {
	return listAll[fizzy.User](ctx, c.httpClient, "/users", nil, limit)
}

// Get retrieves an account user.
func (c *UsersClient) Get(ctx context.Context, userID int64) (*fizzy.User, error) {
	resp, err := c.httpClient.Get(ctx, "/users/"+strconv.FormatInt(userID, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user fizzy.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Me retrieves the authenticated user's identity and account memberships.
// The endpoint is account independent.
func (c *UsersClient) Me(ctx context.Context) (*fizzy.Identity, error) {
	resp, err := c.httpClient.Get(ctx, "/my/identity", nil)
	if err != nil {
		return nil, fmt.Errorf("getting identity: %w", err)
	}

	var identity fizzy.Identity

	err = json.Unmarshal(resp.Body, &identity)
	if err != nil {
		return nil, fmt.Errorf("parsing identity response: %w", err)
	}

	return &identity, nil
}
