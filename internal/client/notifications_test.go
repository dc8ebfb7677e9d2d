package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Notifications live outside the account scope.
		assert.Equal(t, "/my/notifications", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("unread"))
		_, _ = w.Write([]byte(`[{"id": 1, "action": "mentioned", "read": false, "title": "Fix login"}]`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	page, err := apiClient.Notifications().List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mentioned", page.Items[0].Action)
	assert.False(t, page.Items[0].Read)
}

func TestNotificationsListUnreadOnly(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("unread"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	page, err := apiClient.Notifications().List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestNotificationsMarkRead(t *testing.T) {
	t.Parallel()

	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)
	ctx := context.Background()

	require.NoError(t, apiClient.Notifications().MarkRead(ctx, 5))
	require.NoError(t, apiClient.Notifications().MarkAllRead(ctx))

	assert.Equal(t, []string{"/my/notifications/5/read", "/my/notifications/read"}, paths)
}
