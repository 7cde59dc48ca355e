package cerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewError(Rejected, "task not found", nil)
	assert.Equal(t, "[rejected] task not found", err.Error())

	wrapped := NewError(Network, "remote task service unreachable", errors.New("dial tcp: connection refused"))
	assert.Equal(t, "[network] remote task service unreachable: dial tcp: connection refused", wrapped.Error())
}

func TestErrorUnwrap(t *testing.T) {
	underlying := errors.New("boom")
	err := NewError(Malformed, "undecodable response body", underlying)
	assert.ErrorIs(t, err, underlying)
}

func TestStackCapturedForUnexpectedCodes(t *testing.T) {
	assert.NotEmpty(t, NewError(Unknown, "x", nil).Stack)
	assert.NotEmpty(t, NewError(Malformed, "x", nil).Stack)
	assert.Empty(t, NewError(Rejected, "x", nil).Stack)
	assert.Empty(t, NewError(Network, "x", nil).Stack)
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, Network, "unused"))

	classified := NewError(Rejected, "nope", nil)
	assert.Same(t, classified, Wrap(fmt.Errorf("outer: %w", classified), Network, "unused"))

	assert.True(t, IsCode(Wrap(context.Canceled, Network, "unused"), Canceled))
	assert.True(t, IsCode(Wrap(context.DeadlineExceeded, Network, "unused"), DeadlineExceeded))
	assert.True(t, IsCode(Wrap(errors.New("dial failed"), Network, "unreachable"), Network))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, Unknown, CodeOf(errors.New("plain")))
	assert.Equal(t, Rejected, CodeOf(NewError(Rejected, "x", nil)))
	assert.Equal(t, Malformed, CodeOf(fmt.Errorf("wrap: %w", NewError(Malformed, "x", nil))))
}
