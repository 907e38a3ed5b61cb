package benchmark_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hupe1980/aiofile"
)

// Standard chunk sizes used across benchmarks for consistency.
const (
	chunkSmall  = 128       // log lines
	chunkMedium = 4 << 10   // page-sized records
	chunkLarge  = 256 << 10 // bulk copies
)

// BenchFile wraps handle creation with standardized config.
type BenchFile struct {
	*aiofile.File
	driver *aiofile.Driver
}

type driverFactory func(opts ...aiofile.Option) (*aiofile.Driver, error)

// OpenBenchFile opens a fresh file in a temp dir with the given driver.
func OpenBenchFile(b *testing.B, newDriver driverFactory, mode string, opts ...aiofile.Option) *BenchFile {
	b.Helper()

	d, err := newDriver(opts...)
	if err != nil {
		b.Fatalf("failed to create driver: %v", err)
	}
	f, err := d.Open(filepath.Join(b.TempDir(), "bench.bin"), mode)
	if err != nil {
		b.Fatalf("failed to open file: %v", err)
	}
	bf := &BenchFile{File: f, driver: d}
	b.Cleanup(bf.close)
	return bf
}

func (bf *BenchFile) close() {
	_ = bf.File.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = bf.driver.Close(ctx)
}

func chunk(size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte('a' + i%26)
	}
	return p
}
