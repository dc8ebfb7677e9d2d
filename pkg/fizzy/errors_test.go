package fizzy_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
)

func TestClassifyResponseKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		kind   fizzy.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, fizzy.ErrorKindAuthentication},
		{"not found", http.StatusNotFound, fizzy.ErrorKindNotFound},
		{"unprocessable", http.StatusUnprocessableEntity, fizzy.ErrorKindValidation},
		{"rate limited", http.StatusTooManyRequests, fizzy.ErrorKindRateLimit},
		{"bad request", http.StatusBadRequest, fizzy.ErrorKindGeneric},
		{"forbidden", http.StatusForbidden, fizzy.ErrorKindGeneric},
		{"server error", http.StatusInternalServerError, fizzy.ErrorKindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apiErr := fizzy.ClassifyResponse(tt.status, http.Header{}, nil)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClassifyResponseMessage(t *testing.T) {
	t.Parallel()

	t.Run("from body error field", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"error": "board not found"}`)
		apiErr := fizzy.ClassifyResponse(http.StatusNotFound, http.Header{}, body)
		assert.Equal(t, "board not found", apiErr.Message)
	})

	t.Run("falls back to status text", func(t *testing.T) {
		t.Parallel()

		apiErr := fizzy.ClassifyResponse(http.StatusNotFound, http.Header{}, nil)
		assert.Equal(t, "Not Found", apiErr.Message)
	})

	t.Run("bad request uses fixed message", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"error": "something else"}`)
		apiErr := fizzy.ClassifyResponse(http.StatusBadRequest, http.Header{}, body)
		assert.Equal(t, "invalid parameters", apiErr.Message)
	})

	t.Run("non-JSON body is kept raw", func(t *testing.T) {
		t.Parallel()

		body := []byte("<html>oops</html>")
		apiErr := fizzy.ClassifyResponse(http.StatusInternalServerError, http.Header{}, body)
		assert.Equal(t, "Internal Server Error", apiErr.Message)
		assert.Equal(t, body, apiErr.Body)
	})
}

func TestClassifyResponseRetryAfter(t *testing.T) {
	t.Parallel()

	t.Run("numeric header captured", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Retry-After", "30")

		apiErr := fizzy.ClassifyResponse(http.StatusTooManyRequests, header, nil)
		require.NotNil(t, apiErr.RetryAfter)
		assert.Equal(t, 30, *apiErr.RetryAfter)
	})

	t.Run("missing header leaves nil", func(t *testing.T) {
		t.Parallel()

		apiErr := fizzy.ClassifyResponse(http.StatusTooManyRequests, http.Header{}, nil)
		assert.Nil(t, apiErr.RetryAfter)
	})

	t.Run("non-numeric header leaves nil", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")

		apiErr := fizzy.ClassifyResponse(http.StatusTooManyRequests, header, nil)
		assert.Nil(t, apiErr.RetryAfter)
	})

	t.Run("not captured outside 429", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Retry-After", "30")

		apiErr := fizzy.ClassifyResponse(http.StatusServiceUnavailable, header, nil)
		assert.Nil(t, apiErr.RetryAfter)
	})
}

func TestClassifyResponseValidationDetails(t *testing.T) {
	t.Parallel()

	t.Run("object body parsed", func(t *testing.T) {
		t.Parallel()

		body := []byte(`{"error": "validation failed", "title": ["can't be blank"]}`)
		apiErr := fizzy.ClassifyResponse(http.StatusUnprocessableEntity, http.Header{}, body)
		require.NotNil(t, apiErr.ValidationDetails)
		assert.Equal(t, "validation failed", apiErr.ValidationDetails["error"])
		assert.Contains(t, apiErr.ValidationDetails, "title")
	})

	t.Run("non-object body leaves nil", func(t *testing.T) {
		t.Parallel()

		apiErr := fizzy.ClassifyResponse(http.StatusUnprocessableEntity, http.Header{}, []byte("nope"))
		assert.Nil(t, apiErr.ValidationDetails)
	})
}

func TestAPIErrorError(t *testing.T) {
	t.Parallel()

	apiErr := &fizzy.APIError{Kind: fizzy.ErrorKindNotFound, Status: 404, Message: "Not Found"}
	assert.Equal(t, "Not Found (status: 404)", apiErr.Error())

	netErr := fizzy.NetworkError(errors.New("connection refused"))
	assert.Equal(t, "network error: connection refused", netErr.Error())
	assert.Equal(t, fizzy.ErrorKindGeneric, netErr.Kind)
	assert.Equal(t, 0, netErr.Status)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	notFound := fizzy.ClassifyResponse(http.StatusNotFound, http.Header{}, nil)
	auth := fizzy.ClassifyResponse(http.StatusUnauthorized, http.Header{}, nil)
	rateLimit := fizzy.ClassifyResponse(http.StatusTooManyRequests, http.Header{}, nil)
	validation := fizzy.ClassifyResponse(http.StatusUnprocessableEntity, http.Header{}, nil)

	assert.True(t, fizzy.IsNotFound(notFound))
	assert.False(t, fizzy.IsNotFound(auth))

	assert.True(t, fizzy.IsAuthentication(auth))
	assert.False(t, fizzy.IsAuthentication(notFound))

	assert.True(t, fizzy.IsRateLimit(rateLimit))
	assert.True(t, fizzy.IsValidation(validation))

	assert.False(t, fizzy.IsNotFound(errors.New("plain error")))
	assert.False(t, fizzy.IsNotFound(nil))
}

func TestErrorPredicatesWrapped(t *testing.T) {
	t.Parallel()

	apiErr := fizzy.ClassifyResponse(http.StatusNotFound, http.Header{}, nil)
	wrapped := fmt.Errorf("getting board: %w", apiErr)

	assert.True(t, fizzy.IsNotFound(wrapped))
}
