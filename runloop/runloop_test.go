package runloop_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/collapse/runloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *runloop.Loop {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	l := runloop.NewLoop()
	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestLoop_Do(t *testing.T) {
	t.Parallel()

	t.Run("runs layout callbacks before returning", func(t *testing.T) {
		t.Parallel()

		l := startLoop(t)
		var order []string

		err := l.Do(context.Background(), func() {
			order = append(order, "task")
			l.AfterLayout(func() { order = append(order, "layout") })
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"task", "layout"}, order)
	})
}

func TestLoop_AfterFunc(t *testing.T) {
	t.Parallel()

	t.Run("runs callback on the loop", func(t *testing.T) {
		t.Parallel()

		l := startLoop(t)
		fired := make(chan struct{})

		l.AfterFunc(5*time.Millisecond, func() { close(fired) })

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timer did not fire")
		}
	})

	t.Run("stop prevents callback", func(t *testing.T) {
		t.Parallel()

		l := startLoop(t)
		var fired atomic.Bool

		timer := l.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
		assert.True(t, timer.Stop())
		time.Sleep(50 * time.Millisecond)

		assert.False(t, fired.Load())
	})
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns context error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		l := runloop.NewLoop()
		cancel()

		err := l.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
