package benchmark_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/hupe1980/aiofile"
)

func BenchmarkWrite_AwaitEach(b *testing.B) {
	for _, size := range []int{chunkSmall, chunkMedium, chunkLarge} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			benchmarkWriteAwaitEach(b, aiofile.NewLocalDriver, size)
		})
	}
}

func BenchmarkWrite_Pipelined(b *testing.B) {
	for _, size := range []int{chunkSmall, chunkMedium, chunkLarge} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			benchmarkWritePipelined(b, aiofile.NewLocalDriver, size)
		})
	}
}

func BenchmarkRead_Sequential(b *testing.B) {
	benchmarkReadSequential(b, aiofile.NewLocalDriver, chunkMedium)
}

func benchmarkWriteAwaitEach(b *testing.B, newDriver driverFactory, size int) {
	b.ReportAllocs()
	b.SetBytes(int64(size))

	f := OpenBenchFile(b, newDriver, "w")
	p := chunk(size)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := f.Write(p)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Wait(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkWritePipelined(b *testing.B, newDriver driverFactory, size int) {
	b.ReportAllocs()
	b.SetBytes(int64(size))

	f := OpenBenchFile(b, newDriver, "w")
	p := chunk(size)

	b.ResetTimer()
	var last *aiofile.Completion
	for i := 0; i < b.N; i++ {
		c, err := f.Write(p)
		if err != nil {
			b.Fatal(err)
		}
		last = c
	}
	if last != nil {
		if _, err := last.Wait(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkReadSequential(b *testing.B, newDriver driverFactory, size int) {
	b.ReportAllocs()
	b.SetBytes(int64(size))

	f := OpenBenchFile(b, newDriver, "w+")
	const blocks = 256
	p := chunk(size)
	for i := 0; i < blocks; i++ {
		if _, err := f.Write(p); err != nil {
			b.Fatal(err)
		}
	}
	if err := f.Truncate(int64(blocks * size)); err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%blocks == 0 {
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				b.Fatal(err)
			}
		}
		if _, err := f.Read(ctx, size); err != nil {
			b.Fatal(err)
		}
	}
}
