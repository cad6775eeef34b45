package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := FetchFailed("sheet", context.DeadlineExceeded)
	wrapped := Wrap(base, "library refresh")

	assert.Equal(t, CodeFetchFailed, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, context.DeadlineExceeded))
	assert.Contains(t, wrapped.Error(), "library refresh")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, WithCode(CodeInternalError, nil))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", EmptyResult("sheet"))
	assert.Equal(t, CodeEmptyResult, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestUserMessageDistinguishesEmptyFromParse(t *testing.T) {
	empty := UserMessage(EmptyResult("sheet"))
	parse := UserMessage(ParseFailed("sheet", stderrors.New("bare quote")))

	assert.NotEmpty(t, empty)
	assert.NotEmpty(t, parse)
	assert.NotEqual(t, empty, parse)
	assert.Empty(t, UserMessage(nil))
	assert.NotContains(t, parse, "bare quote")
}

func TestWithCode(t *testing.T) {
	cause := stderrors.New("status error")
	err := WithCode(CodeFeedStatus, cause)
	assert.True(t, HasCode(err, CodeFeedStatus))
	assert.ErrorIs(t, err, cause)
}
