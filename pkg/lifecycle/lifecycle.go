// Package lifecycle coordinates subsystem startup and shutdown for
// long-running processes.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator tracks startup and shutdown hooks across subsystems.
// Startup hooks run concurrently and readiness is reached once every
// one has returned. Shutdown hooks should block on <-Context().Done()
// before tearing anything down.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

// New creates a Coordinator whose Context is cancelled by Shutdown.
func New() *Coordinator {
	c := &Coordinator{}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn in its own goroutine and counts it toward readiness.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn in its own goroutine and counts it toward
// shutdown completion.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Ready reports whether every startup hook has returned.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks finish, then marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context and waits up to timeout for the
// shutdown hooks to drain. Hooks still running after the deadline are
// abandoned and an error is returned.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	drained := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown incomplete after %v", timeout)
	}
}
