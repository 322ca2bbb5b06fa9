package exam

import (
	"context"
	"sync"
	"time"
)

// Countdown is a cancellable repeating tick. The tick function runs on the
// countdown's own goroutine; returning false ends the countdown.
type Countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartCountdown begins calling tick every interval until Stop is called,
// ctx is cancelled, or tick returns false.
func StartCountdown(ctx context.Context, interval time.Duration, tick func() bool) *Countdown {
	ctx, cancel := context.WithCancel(ctx)
	c := &Countdown{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// A tick racing with Stop must not run.
				if ctx.Err() != nil {
					return
				}
				if !tick() {
					return
				}
			}
		}
	}()
	return c
}

// Stop cancels the countdown. It never blocks, so it is safe to call from
// inside the tick function and while holding locks the tick function takes.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.once.Do(c.cancel)
}

// Done is closed once the countdown goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
