//go:build unix

package aiofile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "native.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	d, err := NewNativeDriver()
	require.NoError(t, err)

	f, err := d.Open(path, "a+")
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.Tell())

	c1, err := f.Write([]byte("ab"))
	require.NoError(t, err)
	c2, err := f.Write([]byte("cd"))
	require.NoError(t, err)
	mustWait(t, c2)
	mustWait(t, c1)
	assert.Equal(t, int64(14), f.Size())

	_, err = f.Seek(8, io.SeekStart)
	require.NoError(t, err)
	data, err := f.Read(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "89abcd", string(data))

	_, err = f.Read(context.Background(), 1)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, f.Truncate(4))
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(got))

	_, err = f.Read(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosedHandle)
}
