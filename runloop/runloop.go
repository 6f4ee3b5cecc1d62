// Package runloop provides implementations of collapse.Scheduler.
//
// Loop serializes all page work on one goroutine with real timers. Virtual
// runs the same contract on a manually advanced clock, for replays and
// tests.
package runloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/collapse"
)

// Ensure Loop implements collapse.Scheduler at compile time.
var _ collapse.Scheduler = (*Loop)(nil)

// Loop runs posted tasks one at a time on the goroutine that called Run.
// After each task, callbacks registered with AfterLayout run before the next
// task starts. Post, Do and AfterFunc are safe to call from any goroutine;
// AfterLayout must be called from within a task.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	once   sync.Once
	frames []func()
}

// NewLoop returns a Loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
			l.flush()
		}
	}
}

// Post queues f. Tasks posted after Run returned are dropped.
func (l *Loop) Post(f func()) {
	select {
	case l.tasks <- f:
	case <-l.done:
	}
}

// Do runs f on the loop and waits until it and the layout callbacks it
// scheduled have finished.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	task := func() {
		f()
		l.flush()
		close(finished)
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc posts f to the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) collapse.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerRan) {
				f()
			}
		})
	})
	return t
}

// AfterLayout runs f after the current task.
func (l *Loop) AfterLayout(f func()) {
	l.frames = append(l.frames, f)
}

func (l *Loop) flush() {
	for len(l.frames) > 0 {
		frames := l.frames
		l.frames = nil
		for _, f := range frames {
			f()
		}
	}
}

const (
	timerPending int32 = iota
	timerRan
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
