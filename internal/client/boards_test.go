package client_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizzy-hq/fizzy-cli/internal/client"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

func newTestAPIClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	config := fizzy.NewConfig()
	config.BaseURL = baseURL
	config.Account = "acme"
	config.Credential = fizzy.Credential{Type: fizzy.CredentialBearer, Token: "test-token"}
	config.MaxRetries = 0

	apiClient, err := client.New(config)
	require.NoError(t, err)

	return apiClient
}

func TestBoardsList(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/boards", r.URL.Path)
		w.Header().Set("Link", fmt.Sprintf(`<%s/acme/boards?page=2>; rel="next"`, server.URL))
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Launch"}, {"id": 2, "name": "Backlog"}]`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	page, err := apiClient.Boards().List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Launch", page.Items[0].Name)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestBoardsListAll(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`[{"id": 3, "name": "Archive"}]`))

			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<%s/acme/boards?page=2>; rel="next"`, server.URL))
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Launch"}, {"id": 2, "name": "Backlog"}]`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	boards, err := apiClient.Boards().ListAll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, boards, 3)
	assert.Equal(t, "Archive", boards[2].Name)
}

func TestBoardsGet(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/boards/7", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"id": 7, "name": "Launch", "all_access": true}`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	board, err := apiClient.Boards().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), board.ID)
	assert.Equal(t, "Launch", board.Name)
	assert.True(t, board.AllAccess)
}

func TestBoardsCreateFollowsLocation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)

	defer server.Close()

	mux.HandleFunc("/acme/boards", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Location", server.URL+"/acme/boards/7")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/acme/boards/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "name": "Launch"}`))
	})

	apiClient := newTestAPIClient(t, server.URL)

	board, err := apiClient.Boards().Create(context.Background(), &client.BoardCreateRequest{Name: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), board.ID)
	assert.Equal(t, "Launch", board.Name)
}

func TestBoardsDelete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/boards/7", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	require.NoError(t, apiClient.Boards().Delete(context.Background(), 7))
}

func TestBoardsGetNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "board not found"}`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	_, err := apiClient.Boards().Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, fizzy.IsNotFound(err))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The identity endpoint is never scoped to an account.
		assert.Equal(t, "/my/identity", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"user": {"id": 1, "name": "Jordan", "email_address": "jordan@example.com"},
			"accounts": [{"id": 10, "slug": "acme", "name": "Acme Inc"}]
		}`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	identity, err := apiClient.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jordan", identity.User.Name)
	require.Len(t, identity.Accounts, 1)
	assert.Equal(t, "acme", identity.Accounts[0].Slug)
}
