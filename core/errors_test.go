package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	err := Error(ERANGE, "read past end at %d", 42)
	assert.Equal(t, ERANGE, Code(err))
	assert.Equal(t, "read past end at 42", UserMessage(err))
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, errors.Is(err, ErrInvalidFont))
}

func TestWrappedErrorMatchesSentinel(t *testing.T) {
	inner := Error(EFORMAT, "cmap format 6")
	err := fmt.Errorf("loading font: %w", inner)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, EFORMAT, Code(err))
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errors.New("x")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestWrapNil(t *testing.T) {
	err := WrapError(nil, ENOTIMPL, "GPOS lookup type %d", 4)
	assert.True(t, errors.Is(err, ErrNotImplemented))
	assert.Contains(t, err.Error(), "GPOS lookup type 4")
	err = ErrorWithCode(nil, EMISSING)
	assert.True(t, errors.Is(err, ErrMissing))
}
