// Package loop provides the event loop on which I/O completions are delivered.
//
// A Loop runs callbacks one at a time, in the order they were posted, on a
// single dispatcher goroutine. The dispatcher is started on demand and stays
// alive only while the loop is pinned or callbacks are queued:
//
//	l := loop.New()
//	pin := l.Pin()            // keep the loop alive while a request is outstanding
//	go func() {
//	    n, err := syscallThatBlocks()
//	    _ = l.Post(func() {   // deliver the completion on the loop
//	        defer pin.Release()
//	        handle(n, err)
//	    })
//	}()
//
// Pins are reference counted. Every Pin must be released exactly once;
// releasing twice is a no-op.
package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Post after the loop has been shut down.
var ErrClosed = errors.New("loop: closed")

// Options configures a Loop.
type Options struct {
	// Logger receives callback panics and lifecycle events.
	// If nil, logging is discarded.
	Logger *slog.Logger
}

// Loop dispatches posted callbacks serially.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	pins    int
	running bool
	closed  bool
	idle    chan struct{} // closed whenever the dispatcher is not running

	dispatched atomic.Uint64
	logger     *slog.Logger
}

// New creates a new Loop. No goroutine is started until the loop is pinned
// or a callback is posted.
func New(optFns ...func(o *Options)) *Loop {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	idle := make(chan struct{})
	close(idle)

	l := &Loop{
		idle:   idle,
		logger: opts.Logger,
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Post enqueues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.queue = append(l.queue, fn)
	l.startLocked()
	l.cond.Signal()
	return nil
}

// Pin keeps the loop alive until the returned Pin is released.
func (l *Loop) Pin() *Pin {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pins++
	l.startLocked()
	return &Pin{loop: l}
}

func (l *Loop) unpin() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pins--
	if l.pins < 0 {
		panic(fmt.Sprintf("loop: pin count underflow (%d)", l.pins))
	}
	if l.pins == 0 {
		l.cond.Broadcast()
	}
}

// Pins returns the number of outstanding pins.
func (l *Loop) Pins() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pins
}

// Alive reports whether the dispatcher goroutine is running.
func (l *Loop) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Dispatched returns the number of callbacks run so far.
func (l *Loop) Dispatched() uint64 {
	return l.dispatched.Load()
}

// WaitIdle blocks until the loop has no pins and no queued callbacks.
func (l *Loop) WaitIdle(ctx context.Context) error {
	for {
		l.mu.Lock()
		idle := l.idle
		l.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}

		// A new pin may have restarted the dispatcher in between.
		l.mu.Lock()
		done := !l.running
		l.mu.Unlock()
		if done {
			return nil
		}
	}
}

// Shutdown waits for outstanding work to drain, then rejects further posts.
func (l *Loop) Shutdown(ctx context.Context) error {
	if err := l.WaitIdle(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.logger.Debug("loop shut down", "dispatched", l.dispatched.Load())
	return nil
}

// Caller must hold l.mu.
func (l *Loop) startLocked() {
	if l.running {
		return
	}
	l.running = true
	l.idle = make(chan struct{})
	go l.run()
}

func (l *Loop) run() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && l.pins > 0 {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.running = false
			close(l.idle)
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(fn)
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r)
		}
	}()
	l.dispatched.Add(1)
	fn()
}

// Pin is a liveness token. See Loop.Pin.
type Pin struct {
	loop *Loop
	once sync.Once
}

// Release drops the pin. Only the first call has an effect.
func (p *Pin) Release() {
	if p == nil {
		return
	}
	p.once.Do(p.loop.unpin)
}
