package events

import (
	"context"
	"time"

	"beatmeat/internal/clock"
)

// Loop is the single logical thread of the client. Socket readers, timers
// and user input post closures here; they run one at a time, to completion.
type Loop struct {
	inbox chan func()
}

func NewLoop(size int) *Loop {
	return &Loop{inbox: make(chan func(), size)}
}

// Post queues f. It blocks while the inbox is full, so it must not be
// called from inside the loop.
func (l *Loop) Post(f func()) {
	l.inbox <- f
}

// Do runs f on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	select {
	case l.inbox <- func() { f(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted closures until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-l.inbox:
			f()
		}
	}
}

// Clock returns a clock whose callbacks are delivered through the loop.
func (l *Loop) Clock(c clock.Clock) clock.Clock {
	return &loopClock{inner: c, loop: l}
}

type loopClock struct {
	inner clock.Clock
	loop  *Loop
}

type loopTimer struct {
	inner   clock.Timer
	stopped bool // only touched on the loop
}

func (c *loopClock) Now() time.Time { return c.inner.Now() }

func (c *loopClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	t := &loopTimer{}
	t.inner = c.inner.AfterFunc(d, func() {
		c.loop.Post(func() {
			if t.stopped {
				return
			}
			f()
		})
	})
	return t
}

// Stop must be called on the loop. A callback already queued by the
// underlying timer is suppressed.
func (t *loopTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return t.inner.Stop()
}
