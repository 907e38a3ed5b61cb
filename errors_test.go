package aiofile

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/aiofile/aio"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError("read", "p", nil))

	bad := fmt.Errorf("%w: %w", aio.ErrBadDescriptor, errors.New("EBADF"))
	err := translateError("write", "p", bad)
	assert.ErrorIs(t, err, ErrClosedHandle)
	assert.ErrorIs(t, err, aio.ErrBadDescriptor)
	var se *StreamError
	assert.False(t, errors.As(err, &se))

	cause := errors.New("no space left on device")
	err = translateError("write", "p", cause)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Op)
	assert.Equal(t, "p", se.Path)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "no space left on device")
}

func TestPipelineError(t *testing.T) {
	cause := &StreamError{Op: "write", Path: "p", cause: errors.New("eio")}
	err := error(&PipelineError{Op: "truncate", cause: cause})

	var se *StreamError
	assert.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "queued truncate aborted")
}

func TestInvalidArgumentError(t *testing.T) {
	err := error(&InvalidArgumentError{Name: "whence", Value: 7})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.NotErrorIs(t, err, ErrClosedHandle)
	assert.Equal(t, "invalid argument: whence=7", err.Error())
}
