package swarmerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	err := New(BadInput, ErrEmptyParticipants)
	assert.True(t, Is(err, BadInput))
	assert.False(t, Is(err, QualityGate))
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("boom"), BadInput))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := New(SerializerError, ErrNaNBeauty)
	assert.True(t, errors.Is(err, ErrNaNBeauty))
}

func TestErrorStringIncludesKindAndCause(t *testing.T) {
	err := New(PersistenceError, errors.New("connection refused"))
	assert.Contains(t, err.Error(), "persistence_error")
	assert.Contains(t, err.Error(), "connection refused")
}
