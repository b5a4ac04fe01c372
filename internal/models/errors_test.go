package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	err := NewConflictError("Username already taken", errors.New("duplicate key"))

	assert.True(t, IsCode(err, CodeConflict))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(nil, CodeConflict))
	assert.False(t, IsCode(errors.New("plain"), CodeConflict))

	// wrapped AppErrors are still recognized
	wrapped := fmt.Errorf("saving user: %w", err)
	assert.True(t, IsCode(wrapped, CodeConflict))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewConflictError("Username already taken", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Username already taken: duplicate key", err.Error())

	bare := NewValidationError("Username is required")
	assert.Equal(t, "Username is required", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestSelfLikeErrorMessage(t *testing.T) {
	err := NewSelfLikeError()
	assert.Equal(t, CodeSelfLike, err.Code)
	assert.Equal(t, "You cannot like your own message.", err.Message)
}
