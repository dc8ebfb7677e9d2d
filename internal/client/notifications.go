package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// NotificationsClient manages the authenticated user's notifications. All
// notification endpoints are account independent.
type NotificationsClient struct {
	httpClient *httpclient.Client
}

// NewNotificationsClient creates a new notifications client.
func NewNotificationsClient(httpClient *httpclient.Client) *NotificationsClient {
	return &NotificationsClient{httpClient: httpClient}
}

// List fetches a page of notifications. Pass unreadOnly to filter out
// notifications that were already read.
func (c *NotificationsClient) List(ctx context.Context, unreadOnly bool) (*ListPage[fizzy.Notification], error) {
	var query url.Values
	if unreadOnly {
		query = url.Values{"unread": []string{"true"}}
	}

	return listPage[fizzy.Notification](ctx, c.httpClient, "/my/notifications", query)
}

// ListAll fetches notifications across pages, capped at limit when limit > 0.
func (c *NotificationsClient) ListAll(ctx context.Context, unreadOnly bool, limit int) ([]fizzy.Notification, error) {
	var query url.Values
	if unreadOnly {
		query = url.Values{"unread": []string{"true"}}
	}

	return listAll[fizzy.Notification](ctx, c.httpClient, "/my/notifications", query, limit)
}

// MarkRead marks a single notification as read.
func (c *NotificationsClient) MarkRead(ctx context.Context, notificationID int64) error {
	path := "/my/notifications/" + strconv.FormatInt(notificationID, 10) + "/read"

	_, err := c.httpClient.Post(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	return nil
}

// MarkAllRead marks every notification as read.
func (c *NotificationsClient) MarkAllRead(ctx context.Context) error {
	_, err := c.httpClient.Post(ctx, "/my/notifications/read", nil)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}

	return nil
}
