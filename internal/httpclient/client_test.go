package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizzy-hq/fizzy-cli/internal/auth"
	"github.com/fizzy-hq/fizzy-cli/internal/httpclient"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

func fastRetryPolicy(maxRetries int) httpclient.RetryPolicy {
	return httpclient.RetryPolicy{
		MaxRetries:    maxRetries,
		InitialDelay:  time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func newTestClient(t *testing.T, baseURL, account string, opts ...httpclient.Option) *httpclient.Client {
	t.Helper()

	tokenManager, err := auth.NewStaticTokenManager(fizzy.Credential{
		Type:  fizzy.CredentialBearer,
		Token: "test-token",
	})
	require.NoError(t, err)

	opts = append([]httpclient.Option{httpclient.WithRetryPolicy(fastRetryPolicy(0))}, opts...)

	return httpclient.NewClient(baseURL, account, tokenManager, opts...)
}

func TestClientRequestHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "fizzy-cli", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	resp, err := client.Get(context.Background(), "/boards", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientSessionCredential(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session_token")
		require.NoError(t, err)
		assert.Equal(t, "session-value", cookie.Value)
		assert.Empty(t, r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tokenManager, err := auth.NewStaticTokenManager(fizzy.Credential{
		Type:  fizzy.CredentialSession,
		Token: "session-value",
	})
	require.NoError(t, err)

	client := httpclient.NewClient(server.URL, "acme", tokenManager)

	_, err = client.Get(context.Background(), "/boards", nil)
	require.NoError(t, err)
}

func TestClientUserAgentOverride(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fizzy-cli/1.2.3", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme", httpclient.WithUserAgent("fizzy-cli/1.2.3"))

	_, err := client.Get(context.Background(), "/boards", nil)
	require.NoError(t, err)
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "https://app.fizzy.do", "acme")

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"account scoped", "/boards", "https://app.fizzy.do/acme/boards"},
		{"no leading slash", "boards", "https://app.fizzy.do/acme/boards"},
		{"already scoped", "/acme/boards/3", "https://app.fizzy.do/acme/boards/3"},
		{"account independent my", "/my/identity", "https://app.fizzy.do/my/identity"},
		{"account independent session", "/session", "https://app.fizzy.do/session"},
		{"absolute passes through", "https://other.example.com/x", "https://other.example.com/x"},
		{"prefix is a path segment", "/myboards", "https://app.fizzy.do/acme/myboards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, client.ResolveURL(tt.path))
		})
	}

	t.Run("no account configured", func(t *testing.T) {
		t.Parallel()

		unscoped := newTestClient(t, "https://app.fizzy.do", "")
		assert.Equal(t, "https://app.fizzy.do/boards", unscoped.ResolveURL("/boards"))
	})
}

func TestClientRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme", httpclient.WithRetryPolicy(fastRetryPolicy(3)))

	resp, err := client.Get(context.Background(), "/boards", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

func TestClientRetryBudgetExhausted(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "still broken"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme", httpclient.WithRetryPolicy(fastRetryPolicy(2)))

	_, err := client.Get(context.Background(), "/boards", nil)
	require.Error(t, err)

	// MaxRetries of 2 means three total tries.
	assert.Equal(t, int32(3), hits.Load())

	apiErr := &fizzy.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fizzy.ErrorKindGeneric, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "still broken", apiErr.Message)
}

func TestClientDoesNotRetryTerminalStatuses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "no such board"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme", httpclient.WithRetryPolicy(fastRetryPolicy(3)))

	_, err := client.Get(context.Background(), "/boards/99", nil)
	require.Error(t, err)
	assert.True(t, fizzy.IsNotFound(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientRateLimitErrorCarriesRetryAfter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	_, err := client.Get(context.Background(), "/boards", nil)
	require.Error(t, err)
	assert.True(t, fizzy.IsRateLimit(err))

	apiErr := &fizzy.APIError{}
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.RetryAfter)
	assert.Equal(t, 15, *apiErr.RetryAfter)
}

func TestClientETagRevalidation(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)

			return
		}

		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	ctx := context.Background()

	first, err := client.Get(ctx, "/boards", nil)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, `"v1"`, first.ETag)

	second, err := client.Get(ctx, "/boards", nil)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, http.StatusNotModified, second.StatusCode)
	assert.Equal(t, first.Body, second.Body)

	// Both requests reached the server; the cache only short-circuits the
	// body, not the round trip.
	assert.Equal(t, int32(2), hits.Load())
}

func TestClientCacheSkipsNotifications(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-None-Match"))
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "")
	ctx := context.Background()

	_, err := client.Get(ctx, "/my/notifications", nil)
	require.NoError(t, err)

	_, err = client.Get(ctx, "/my/notifications", nil)
	require.NoError(t, err)

	assert.Zero(t, client.CacheStats().Size)
}

func TestClientFollowsCreatedLocation(t *testing.T) {
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
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"id": 7, "name": "Launch"}`))
	})

	client := newTestClient(t, server.URL, "acme")

	resp, err := client.Post(context.Background(), "/boards", map[string]string{"name": "Launch"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 7, "name": "Launch"}`, string(resp.Body))
}

func TestClientCreatedWithBodyNotFollowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/acme/boards/7")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	resp, err := client.Post(context.Background(), "/boards", map[string]string{"name": "Launch"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id": 7}`, string(resp.Body))
}

func TestClientNoContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	resp, err := client.Delete(context.Background(), "/boards/7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, resp.Body)
}

func TestClientRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance page</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	_, err := client.Get(context.Background(), "/boards", nil)
	require.ErrorIs(t, err, fizzy.ErrDecodeFailed)
	assert.Contains(t, err.Error(), "maintenance page")
}

func TestClientJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"title": "Ship it"}`, string(body))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	_, err := client.Post(context.Background(), "/cards", map[string]string{"title": "Ship it"})
	require.NoError(t, err)
}

func TestClientQueryParameters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("status"))
		assert.Equal(t, "3", r.URL.Query().Get("board"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	query := url.Values{}
	query.Set("status", "open")
	query.Set("board", "3")

	_, err := client.Get(context.Background(), "/cards", query)
	require.NoError(t, err)
}

func TestClientNetworkErrorIsTyped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, "acme")

	_, err := client.Get(context.Background(), "/boards", nil)
	require.Error(t, err)

	apiErr := &fizzy.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fizzy.ErrorKindGeneric, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Message, "network error")
}

func TestClientClearCache(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	ctx := context.Background()

	_, err := client.Get(ctx, "/boards", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, client.CacheStats().Size)

	require.NoError(t, client.ClearCache(ctx))
	assert.Zero(t, client.CacheStats().Size)
}
