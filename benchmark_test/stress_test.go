package benchmark_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/aiofile"
	"github.com/hupe1980/aiofile/resource"
)

// TestStress_ManyFilesSharedLoop drives several handles on one driver with a
// bounded backend and checks every file ends up byte-exact.
func TestStress_ManyFilesSharedLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	rc := resource.NewController(resource.Config{MaxConcurrentRequests: 3})
	d, err := aiofile.NewLocalDriver(aiofile.WithResources(rc))
	require.NoError(t, err)

	dir := t.TempDir()
	const (
		files  = 8
		writes = 200
	)

	var g errgroup.Group
	for i := 0; i < files; i++ {
		g.Go(func() error {
			f, err := d.Open(filepath.Join(dir, string(rune('a'+i))), "w")
			if err != nil {
				return err
			}
			for j := 0; j < writes; j++ {
				if _, err := f.Write([]byte{byte(j)}); err != nil {
					return err
				}
			}
			return f.End(nil)
		})
	}
	require.NoError(t, g.Wait())

	want := make([]byte, writes)
	for j := range want {
		want[j] = byte(j)
	}
	for i := 0; i < files; i++ {
		got, err := os.ReadFile(filepath.Join(dir, string(rune('a'+i))))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(want, got), "file %c", 'a'+i)
	}
	assert.Zero(t, rc.InFlight())
	require.NoError(t, d.Close(context.Background()))
}
