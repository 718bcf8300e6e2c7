package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Run("status and message", func(t *testing.T) {
		e := &Error{Kind: ErrRequestFailed, Status: 404, Message: "feed not found"}
		assert.Equal(t, "request_failed (404): feed not found", e.Error())
	})

	t.Run("message only", func(t *testing.T) {
		e := NewError(ErrWeakSecret, "password must be at least 6 characters")
		assert.Equal(t, "weak_secret: password must be at least 6 characters", e.Error())
	})

	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		e := WrapError(ErrNetwork, cause)
		assert.Equal(t, "network: connection refused", e.Error())
		assert.ErrorIs(t, e, cause)
	})

	t.Run("bare kind", func(t *testing.T) {
		e := &Error{Kind: ErrNotAuthenticated}
		assert.Equal(t, "not_authenticated", e.Error())
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrRateLimited, KindOf(NewError(ErrRateLimited, "")))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	// classification survives wrapping
	wrapped := fmt.Errorf("list feeds: %w", NewError(ErrNotAuthenticated, ""))
	assert.True(t, IsKind(wrapped, ErrNotAuthenticated))
	assert.False(t, IsKind(wrapped, ErrNetwork))
}
