package aio

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/aiofile/loop"
	"github.com/hupe1980/aiofile/resource"
)

// Options configures a backend.
type Options struct {
	// Resources bounds concurrent requests and IO throughput.
	// If nil, requests are unbounded.
	Resources *resource.Controller

	// Logger receives dropped-completion warnings and request failures.
	// If nil, logging is discarded.
	Logger *slog.Logger

	// Hold starts the backend with completions held back (see Hold).
	Hold bool

	// Delay, if set, is called per request and the completion is delayed by
	// the returned duration. Used to shuffle completion timing in tests.
	Delay func() time.Duration
}

// dispatcher runs native requests off the loop and hands their completions
// back to it. It is embedded by the backends.
type dispatcher struct {
	loop   *loop.Loop
	rc     *resource.Controller
	logger *slog.Logger
	delay  func() time.Duration

	mu      sync.Mutex
	holding bool
	held    []func()
}

func newDispatcher(l *loop.Loop, opts Options) *dispatcher {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &dispatcher{
		loop:    l,
		rc:      opts.Resources,
		logger:  opts.Logger,
		delay:   opts.Delay,
		holding: opts.Hold,
	}
}

// dispatch executes op on its own goroutine once a request slot and the IO
// budget for bytes are available. op performs the native call and returns
// the completion to run on the loop.
func (d *dispatcher) dispatch(bytes int, op func() func()) {
	go func() {
		ctx := context.Background()
		_ = d.rc.AcquireRequest(ctx)
		_ = d.rc.AcquireIO(ctx, bytes)
		complete := op()
		d.rc.ReleaseRequest()

		if d.delay != nil {
			if wait := d.delay(); wait > 0 {
				time.Sleep(wait)
			}
		}
		d.deliver(complete)
	}()
}

// fail delivers a completion without running a native request.
func (d *dispatcher) fail(complete func()) {
	go d.deliver(complete)
}

func (d *dispatcher) deliver(complete func()) {
	d.mu.Lock()
	if d.holding {
		d.held = append(d.held, complete)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	if err := d.loop.Post(complete); err != nil {
		// The loop is gone; the completion still has to fire once.
		d.logger.Warn("completion delivered outside loop", "error", err)
		complete()
	}
}

// Hold makes the backend keep finished completions back instead of
// delivering them. Native requests still execute.
func (d *dispatcher) Hold() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.holding = true
}

// Release delivers all held completions in the order they finished and
// stops holding.
func (d *dispatcher) Release() {
	d.mu.Lock()
	held := d.held
	d.held = nil
	d.holding = false
	d.mu.Unlock()

	for _, complete := range held {
		d.deliver(complete)
	}
}

// Held returns the number of completions currently held back.
func (d *dispatcher) Held() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.held)
}
