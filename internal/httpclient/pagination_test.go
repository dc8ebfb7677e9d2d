package httpclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

// newPagedServer serves /acme/cards in pages of two items, emitting a next
// link until the last page. pages is the total page count; requests records
// how many list requests the server saw.
func newPagedServer(t *testing.T, pages int, requests *atomic.Int32) *httptest.Server {
	t.Helper()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}

		first := (page-1)*2 + 1
		items := fmt.Sprintf(`[{"id": %d}, {"id": %d}]`, first, first+1)

		if page < pages {
			next := fmt.Sprintf("%s/acme/cards?page=%d", server.URL, page+1)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		}

		_, _ = w.Write([]byte(items))
	}))

	return server
}

func TestGetPaginated(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := newPagedServer(t, 3, &requests)
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	page, err := client.GetPaginated(context.Background(), "/cards", nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Links.HasNext())
	assert.Equal(t, int32(1), requests.Load())
}

func TestItemIteratorDrainsAllPages(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := newPagedServer(t, 3, &requests)
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	iterator := client.AllPages(context.Background(), "/cards", nil)

	items, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, items, 6)
	assert.Equal(t, int32(3), requests.Load())

	assert.JSONEq(t, `{"id": 1}`, string(items[0]))
	assert.JSONEq(t, `{"id": 6}`, string(items[5]))
}

func TestItemIteratorNext(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := newPagedServer(t, 2, &requests)
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	iterator := client.AllPages(context.Background(), "/cards", nil)

	seen := 0
	for iterator.HasNext() {
		_, err := iterator.Next()
		require.NoError(t, err)

		seen++
	}

	assert.Equal(t, 4, seen)

	// Pages are fetched lazily; the second page is only requested after the
	// first is consumed.
	assert.Equal(t, int32(2), requests.Load())

	_, err := iterator.Next()
	require.ErrorIs(t, err, fizzy.ErrNoMoreItems)
}

func TestItemIteratorSurfacesFetchError(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<%s/acme/cards?page=2>; rel="next"`, server.URL))
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	iterator := client.AllPages(context.Background(), "/cards", nil)

	first, err := iterator.Next()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1}`, string(first))

	// HasNext stays true so the fetch error can surface from Next.
	assert.True(t, iterator.HasNext())

	_, err = iterator.Next()
	require.Error(t, err)

	apiErr := &fizzy.APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestItemIteratorForEach(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32

	server := newPagedServer(t, 2, &requests)
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")
	iterator := client.AllPages(context.Background(), "/cards", nil)

	count := 0
	err := iterator.ForEach(func(item json.RawMessage) error {
		count++

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestGetAll(t *testing.T) {
	t.Parallel()

	t.Run("unbounded", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := newPagedServer(t, 3, &requests)
		defer server.Close()

		client := newTestClient(t, server.URL, "acme")

		items, err := client.GetAll(context.Background(), "/cards", nil, 0)
		require.NoError(t, err)
		assert.Len(t, items, 6)
		assert.Equal(t, int32(3), requests.Load())
	})

	t.Run("limit caps exactly and stops fetching", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32

		server := newPagedServer(t, 3, &requests)
		defer server.Close()

		client := newTestClient(t, server.URL, "acme")

		items, err := client.GetAll(context.Background(), "/cards", nil, 3)
		require.NoError(t, err)
		assert.Len(t, items, 3)

		// The boundary item sits on page two; page three is never requested.
		assert.Equal(t, int32(2), requests.Load())
	})
}

func TestItemIteratorQueryOnlyOnFirstPage(t *testing.T) {
	t.Parallel()

	var server *httptest.Server

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			// The next URL is followed verbatim; the original filter is not
			// re-appended by the client.
			assert.Empty(t, r.URL.Query().Get("status"))
			_, _ = w.Write([]byte(`[{"id": 2}]`))

			return
		}

		assert.Equal(t, "open", r.URL.Query().Get("status"))
		w.Header().Set("Link", fmt.Sprintf(`<%s/acme/cards?page=2>; rel="next"`, server.URL))
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "acme")

	query := url.Values{}
	query.Set("status", "open")

	items, err := client.GetAll(context.Background(), "/cards", query, 0)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
