package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := NewFetch("lachs", "request failed", stderrors.New("timeout"))
	assert.Equal(t, "[fetch] lachs: request failed - timeout", err.Error())

	err = NewMalformedItem("lachs", "missing deals")
	assert.Equal(t, "[malformed_item] lachs: missing deals", err.Error())

	err = NewConfiguration("KEYWORDS list is empty", nil)
	assert.Equal(t, "[configuration] -: KEYWORDS list is empty", err.Error())
}

func TestIsType(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := fmt.Errorf("keyword loop: %w", NewFetch("cheddar", "request failed", inner))

	assert.True(t, IsType(err, ErrorTypeFetch))
	assert.False(t, IsType(err, ErrorTypeNotification))
	assert.Equal(t, ErrorTypeFetch, TypeOf(err))
	assert.ErrorIs(t, err, inner)

	assert.False(t, IsType(inner, ErrorTypeFetch))
	assert.Equal(t, ErrorType(""), TypeOf(inner))
}
