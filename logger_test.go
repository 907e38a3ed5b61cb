package aiofile

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/aiofile/internal/fs"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, slog.LevelDebug).WithPath("data.bin")

	l.LogWrite(4, 2, nil)
	l.LogTruncate(1, errors.New("eio"))
	l.LogClose(nil)
	l.LogRead(context.Background(), 0, 8, nil)

	out := buf.String()
	assert.Contains(t, out, `msg="write completed" path=data.bin offset=4 bytes=2`)
	assert.Contains(t, out, `level=ERROR msg="truncate failed" path=data.bin size=1 error=eio`)
	assert.Contains(t, out, `msg="file closed" path=data.bin`)
	assert.Contains(t, out, `msg="read completed" path=data.bin offset=0 bytes=8`)
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newWriterLogger(&buf, slog.LevelWarn)

	l.LogWrite(0, 1, nil)
	l.LogRead(context.Background(), 0, 0, errors.New("cancelled"))
	assert.Empty(t, buf.String())

	l.LogClose(errors.New("ebadf"))
	assert.Contains(t, buf.String(), "close reported error (ignored)")
}

func TestFile_LogsFailedWrite(t *testing.T) {
	var buf bytes.Buffer
	ffs := fs.NewFaultyFS(fs.NewMemFS())
	ffs.AddRule("bad", fs.Fault{FailAfterBytes: 0})
	h := newHarness(t, ffs)

	l := loggerFor(h, &Logger{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	f, err := l.Open("bad.log", "w")
	require.NoError(t, err)

	c, err := f.Write([]byte("x"))
	require.NoError(t, err)
	_, err = c.Wait(context.Background())
	require.Error(t, err)

	assert.Contains(t, buf.String(), `msg="write failed" path=bad.log offset=0`)
	assert.True(t, NoopLogger().Handler() == slog.DiscardHandler)
}

// loggerFor returns a driver sharing h's loop and backend but logging to l.
func loggerFor(h *harness, l *Logger) *Driver {
	d, _ := NewDriver(h.driver.Loop(), h.backend, WithLogger(l))
	return d
}
