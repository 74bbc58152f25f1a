package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.True(t, Is(wrapped, original))
}

func TestSentinels(t *testing.T) {
	err := Wrap(ErrNotFound, "agent abc123")
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsConflictError(err))

	conflict := Wrapf(ErrConflict, "email %s already registered", "a@b.c")
	assert.True(t, IsConflictError(conflict))
}

func TestIsWithStdlibErrors(t *testing.T) {
	base := fmt.Errorf("base")
	wrapped := Wrap(base, "context")
	assert.True(t, Is(wrapped, base))
}
