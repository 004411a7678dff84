package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("Error includes kind and cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := CapabilityUnavailable(cause)
		assert.Contains(t, err.Error(), "capability_unavailable")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := Unknown(cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("Is matches by kind", func(t *testing.T) {
		err := RateLimited(errors.New("upstream 429"))
		assert.True(t, errors.Is(err, &Error{Kind: KindRateLimited}))
		assert.False(t, errors.Is(err, &Error{Kind: KindUnauthorized}))
	})
}

func TestFixedMessages(t *testing.T) {
	// User-facing messages are fixed per kind; the cause never leaks into them.
	cause := errors.New("secret internal detail: api key sk-123")

	cases := []struct {
		err     *Error
		kind    Kind
		message string
		status  int
	}{
		{CapabilityUnavailable(cause), KindCapabilityUnavailable, "ai service is temporarily unavailable", http.StatusServiceUnavailable},
		{Unauthorized(cause), KindUnauthorized, "ai service rejected the configured credentials", http.StatusBadGateway},
		{RateLimited(cause), KindRateLimited, "too many requests", http.StatusTooManyRequests},
		{TransientNetwork(cause), KindTransientNetwork, "request timed out, please try again", http.StatusGatewayTimeout},
		{InsufficientBalance(cause), KindInsufficientBalance, "insufficient balance", http.StatusPaymentRequired},
		{UserNotFound(cause), KindUserNotFound, "user not found", http.StatusNotFound},
		{Unknown(cause), KindUnknown, "internal server error", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.message, tc.err.Message)
			assert.Equal(t, tc.status, tc.err.StatusCode())
			assert.NotContains(t, tc.err.Message, "sk-123")
		})
	}
}

func TestRetryableFlags(t *testing.T) {
	assert.True(t, IsRetryable(RateLimited(nil)))
	assert.True(t, IsRetryable(TransientNetwork(nil)))
	assert.True(t, IsRetryable(CapabilityUnavailable(nil)))

	assert.False(t, IsRetryable(InvalidInput("prompt is required")))
	assert.False(t, IsRetryable(Unauthorized(nil)))
	assert.False(t, IsRetryable(InsufficientBalance(nil)))
	assert.False(t, IsRetryable(UserNotFound(nil)))
	assert.False(t, IsRetryable(Unknown(nil)))
	assert.False(t, IsRetryable(errors.New("unclassified")))
}

func TestClassify(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, Classify(nil))
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		orig := InsufficientBalance(errors.New("balance 0 < cost 1"))
		assert.Same(t, orig, Classify(orig))
	})

	t.Run("classified errors survive wrapping", func(t *testing.T) {
		orig := UserNotFound(nil)
		wrapped := fmt.Errorf("spend: %w", orig)
		got := Classify(wrapped)
		assert.Equal(t, KindUserNotFound, got.Kind)
	})

	t.Run("context deadline becomes transient network", func(t *testing.T) {
		err := fmt.Errorf("invoke capability: %w", context.DeadlineExceeded)
		got := Classify(err)
		assert.Equal(t, KindTransientNetwork, got.Kind)
		assert.True(t, got.Retryable)
	})

	t.Run("unrecognized errors become unknown", func(t *testing.T) {
		got := Classify(errors.New("something odd"))
		assert.Equal(t, KindUnknown, got.Kind)
		assert.Equal(t, "internal server error", got.Message)
	})

	t.Run("classification ignores message text", func(t *testing.T) {
		// An unclassified error whose text mentions a taxonomy phrase must
		// still classify as unknown; only typed discrimination counts.
		got := Classify(errors.New("user not found"))
		assert.Equal(t, KindUnknown, got.Kind)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidInput, KindOf(InvalidInput("text too long")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
