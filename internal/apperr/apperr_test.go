package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeApplyFailed, errors.New("cells mismatch"))
	wrapped := fmt.Errorf("import: %w", err)

	assert.True(t, errors.Is(wrapped, ErrApplyFailed))
	assert.False(t, errors.Is(wrapped, ErrNoData))
	assert.Equal(t, CodeApplyFailed, CodeOf(wrapped))
	assert.Equal(t, "APPLY_FAILED: cells mismatch", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("boom")))
	assert.Equal(t, "Unexpected error.", Message(""))
	assert.NotEqual(t, Message(CodeNoData), Message(CodeInvalid))
}
