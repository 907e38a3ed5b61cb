package aiofile

import (
	"context"
	"sync"
)

// Completion is the eventual outcome of one write or truncate.
//
// A Completion is resolved exactly once. Callers may wait on it
// independently of later operations queued on the same File.
type Completion struct {
	done chan struct{}
	once sync.Once
	n    int
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolve sets the outcome. Only the first call has an effect.
func (c *Completion) resolve(n int, err error) {
	c.once.Do(func() {
		c.n, c.err = n, err
		close(c.done)
	})
}

// Done returns a channel that is closed once the operation has completed.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Wait blocks until the operation completes or ctx is done. Cancelling ctx
// abandons the wait only; the operation itself keeps running.
func (c *Completion) Wait(ctx context.Context) (int, error) {
	select {
	case <-c.done:
		return c.n, c.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Err blocks until the operation completes and returns its error.
func (c *Completion) Err() error {
	<-c.done
	return c.err
}
