package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := NewNotFound("booking", nil)

	assert.True(t, IsCode(err, ErrNotFound))
	assert.False(t, IsCode(err, ErrConflict))
	assert.False(t, IsCode(errors.New("plain"), ErrNotFound))
}

func TestIsCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("lookup failed: %w", NewNotFound("booking", nil))
	assert.True(t, IsCode(err, ErrNotFound))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailable("booking store", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "booking store is unavailable")
}
