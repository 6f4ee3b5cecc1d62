package main

import (
	"context"
	"time"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/runloop"
)

// replayClock drives a replay. Page state is only touched inside Do.
type replayClock interface {
	collapse.Scheduler

	// Do runs f as one task. Layout callbacks scheduled by f have run by the
	// time Do returns.
	Do(ctx context.Context, f func()) error

	// Wait lets d pass, running the timers that come due.
	Wait(ctx context.Context, d time.Duration) error

	// Close stops the clock. No task runs after Close returns.
	Close()
}

var (
	_ replayClock = (*virtualClock)(nil)
	_ replayClock = (*realtimeClock)(nil)
)

// virtualClock replays on simulated time, so waits return immediately.
type virtualClock struct {
	*runloop.Virtual
}

func newVirtualClock() *virtualClock {
	return &virtualClock{Virtual: runloop.NewVirtual()}
}

func (c *virtualClock) Do(ctx context.Context, f func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f()
	c.Flush()
	return nil
}

func (c *virtualClock) Wait(ctx context.Context, d time.Duration) error {
	c.Advance(d)
	return ctx.Err()
}

func (c *virtualClock) Close() {}

// realtimeClock replays on a runloop.Loop with wall-clock timers.
type realtimeClock struct {
	*runloop.Loop
	cancel context.CancelFunc
	done   chan struct{}
}

func newRealtimeClock(ctx context.Context) *realtimeClock {
	ctx, cancel := context.WithCancel(ctx)
	c := &realtimeClock{
		Loop:   runloop.NewLoop(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(c.done)
		_ = c.Run(ctx)
	}()
	return c
}

// Wait sleeps for d, then waits for the tasks already queued by timers.
func (c *realtimeClock) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	return c.Do(ctx, func() {})
}

func (c *realtimeClock) Close() {
	c.cancel()
	<-c.done
}
