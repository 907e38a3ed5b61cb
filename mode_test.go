package aiofile

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		mode string
		flag int
	}{
		{"r", os.O_RDONLY},
		{"rb", os.O_RDONLY},
		{"r+", os.O_RDWR},
		{"r+b", os.O_RDWR},
		{"w", os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		{"w+", os.O_RDWR | os.O_CREATE | os.O_TRUNC},
		{"a", os.O_WRONLY | os.O_CREATE},
		{"a+", os.O_RDWR | os.O_CREATE},
		{"c", os.O_WRONLY | os.O_CREATE},
		{"c+", os.O_RDWR | os.O_CREATE},
		{"x", os.O_WRONLY | os.O_CREATE | os.O_EXCL},
		{"x+", os.O_RDWR | os.O_CREATE | os.O_EXCL},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			flag, err := parseMode(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.flag, flag)
			assert.Zero(t, flag&os.O_APPEND)
		})
	}

	for _, bad := range []string{"", "rw", "q", "++"} {
		_, err := parseMode(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestModeWritableAndAppend(t *testing.T) {
	assert.False(t, modeWritable("r"))
	assert.False(t, modeWritable("rb"))
	assert.True(t, modeWritable("r+"))
	assert.True(t, modeWritable("w"))
	assert.True(t, modeWritable("a"))

	assert.True(t, modeAppend("a"))
	assert.True(t, modeAppend("a+"))
	assert.False(t, modeAppend("w"))
	assert.False(t, modeAppend("c+"))
}
