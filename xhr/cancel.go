package xhr

import (
	"context"
	"sync"
	"time"

	"github.com/zishang520/engine.io/utils"
	"github.com/zishang520/xhr-polyfill/errors"
)

// cancellation is the per-send token shared by the timeout trigger and Abort.
// The first Cancel wins; Cancel after Settle is a no-op.
type cancellation struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	timer  *utils.Timer

	mu       sync.Mutex
	settled  bool
	finished chan struct{}
	once     sync.Once
}

func newCancellation(timeout time.Duration) *cancellation {
	c := &cancellation{finished: make(chan struct{})}
	c.ctx, c.cancel = context.WithCancelCause(context.Background())
	if timeout > 0 {
		c.timer = utils.SetTimeOut(func() {
			c.Cancel(errors.ErrTimeout)
		}, timeout)
	}
	return c
}

func (c *cancellation) Context() context.Context {
	return c.ctx
}

// Cancel signals the in-flight call to stop. It reports whether this call
// was the one that cancelled it.
func (c *cancellation) Cancel(cause error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settled || c.ctx.Err() != nil {
		return false
	}
	c.cancel(cause)
	return true
}

// Cause returns the cancellation cause, nil while the token is live.
func (c *cancellation) Cause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ctx.Err() == nil {
		return nil
	}
	return context.Cause(c.ctx)
}

// Settle disarms the timeout; later triggers have no effect.
func (c *cancellation) Settle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settled {
		return
	}
	c.settled = true
	if c.timer != nil {
		utils.ClearTimeout(c.timer)
		c.timer = nil
	}
}

func (c *cancellation) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.settled
}

// Finish releases the context and wakes waiters. Safe to call repeatedly.
func (c *cancellation) Finish() {
	c.once.Do(func() {
		c.Settle()
		c.cancel(context.Canceled)
		close(c.finished)
	})
}

func (c *cancellation) Done() <-chan struct{} {
	return c.finished
}
