package client_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepsList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/cards/42/steps", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "content": "Write the fix", "completed": true, "position": 1},
			{"id": 2, "content": "Add a test", "completed": false, "position": 2}
		]`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	steps, err := apiClient.Steps().List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "Write the fix", steps[0].Content)
	assert.True(t, steps[0].Completed)
	assert.False(t, steps[1].Completed)
}

func TestStepsCreate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/cards/42/steps", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"content": "Add a test"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 3, "content": "Add a test", "completed": false}`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	step, err := apiClient.Steps().Create(context.Background(), 42, "Add a test")
	require.NoError(t, err)
	assert.Equal(t, int64(3), step.ID)
	assert.Equal(t, "Add a test", step.Content)
}

func TestStepsToggle(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/cards/42/steps/3/toggle", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(`{"id": 3, "content": "Add a test", "completed": true}`))
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	step, err := apiClient.Steps().Toggle(context.Background(), 42, 3)
	require.NoError(t, err)
	assert.True(t, step.Completed)
}

func TestStepsDelete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/cards/42/steps/3", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	apiClient := newTestAPIClient(t, server.URL)

	require.NoError(t, apiClient.Steps().Delete(context.Background(), 42, 3))
}
