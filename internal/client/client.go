// Package client implements the Fizzy API resource clients over the HTTP
// pipeline in internal/httpclient.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fizzy-hq/fizzy-cli/internal/auth"
	"github.com/fizzy-hq/fizzy-cli/internal/constants"
	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// Client is the aggregate Fizzy API client exposing per-resource clients.
type Client struct {
	httpClient   *httpclient.Client
	tokenManager auth.TokenManager
	baseURL      string
	account      string
	logger       fizzy.Logger

	boards        *BoardsClient
	columns       *ColumnsClient
	cards         *CardsClient
	comments      *CommentsClient
	reactions     *ReactionsClient
	steps         *StepsClient
	tags          *TagsClient
	users         *UsersClient
	notifications *NotificationsClient
	uploads       *UploadsClient
}

// New creates a Fizzy API client from config. The base URL falls back to
// FIZZY_BASE_URL and then the hosted default; retry parameters resolve via
// config, environment, then defaults.
func New(config *fizzy.Config) (*Client, error) {
	if config == nil {
		config = fizzy.NewConfig()
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(constants.EnvBaseURL)
	}

	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	var tokenManager auth.TokenManager

	if config.Credential.Token != "" {
		static, err := auth.NewStaticTokenManager(config.Credential)
		if err != nil {
			return nil, fmt.Errorf("building token manager: %w", err)
		}

		tokenManager = static
	}

	opts := buildClientOptions(config)

	client := &Client{
		httpClient:   httpclient.NewClient(baseURL, config.Account, tokenManager, opts...),
		tokenManager: tokenManager,
		baseURL:      baseURL,
		account:      config.Account,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

func buildClientOptions(config *fizzy.Config) []httpclient.Option {
	opts := []httpclient.Option{
		httpclient.WithRetryPolicy(httpclient.ResolveRetryPolicy(config)),
	}

	if config.Logger != nil {
		opts = append(opts, httpclient.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, httpclient.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, httpclient.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, httpclient.WithTimeout(config.HTTPTimeout))
	}

	if config.Cache != nil {
		cache, err := fizzy.NewCacheFromConfig(config.Cache)
		if err == nil {
			opts = append(opts, httpclient.WithCache(cache))
		}
	}

	return opts
}

func (c *Client) initializeResourceClients() {
	c.boards = NewBoardsClient(c.httpClient)
	c.columns = NewColumnsClient(c.httpClient)
	c.cards = NewCardsClient(c.httpClient)
	c.comments = NewCommentsClient(c.httpClient)
	c.reactions = NewReactionsClient(c.httpClient)
	c.steps = NewStepsClient(c.httpClient)
	c.tags = NewTagsClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.notifications = NewNotificationsClient(c.httpClient)
	c.uploads = NewUploadsClient(c.httpClient)
}

// HTTP exposes the underlying pipeline for callers needing the low-level
// request primitive (cache control, raw requests).
func (c *Client) HTTP() *httpclient.Client {
	return c.httpClient
}

// Account returns the account slug requests are scoped to.
func (c *Client) Account() string {
	return c.account
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Boards returns the boards client.
func (c *Client) Boards() *BoardsClient {
	return c.boards
}

// Columns returns the columns client.
func (c *Client) Columns() *ColumnsClient {
	return c.columns
}

// Cards returns the cards client.
func (c *Client) Cards() *CardsClient {
	return c.cards
}

// Comments returns the comments client.
func (c *Client) Comments() *CommentsClient {
	return c.comments
}

// Reactions returns the reactions client.
func (c *Client) Reactions() *ReactionsClient {
	return c.reactions
}

// Steps returns the steps client.
func (c *Client) Steps() *StepsClient {
	return c.steps
}

// Tags returns the tags client.
func (c *Client) Tags() *TagsClient {
	return c.tags
}

// Users returns the users client.
func (c *Client) Users() *UsersClient {
	return c.users
}

// Notifications returns the notifications client.
func (c *Client) Notifications() *NotificationsClient {
	return c.notifications
}

// Uploads returns the uploads client.
func (c *Client) Uploads() *UploadsClient {
	return c.uploads
}

// Identity fetches the authenticated user and their reachable accounts.
// The endpoint is account-independent.
func (c *Client) Identity(ctx context.Context) (*fizzy.Identity, error) {
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
