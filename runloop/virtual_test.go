package runloop_test

import (
	"testing"
	"time"

	"github.com/fwojciec/collapse/runloop"
	"github.com/stretchr/testify/assert"
)

func TestVirtual_Advance(t *testing.T) {
	t.Parallel()

	t.Run("fires timers in due order", func(t *testing.T) {
		t.Parallel()

		v := runloop.NewVirtual()
		var order []string
		v.AfterFunc(200*time.Millisecond, func() { order = append(order, "late") })
		v.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })
		v.AfterFunc(100*time.Millisecond, func() { order = append(order, "early-second") })

		v.Advance(150 * time.Millisecond)
		assert.Equal(t, []string{"early", "early-second"}, order)
		assert.Equal(t, 1, v.Pending())

		v.Advance(50 * time.Millisecond)
		assert.Equal(t, []string{"early", "early-second", "late"}, order)
		assert.Equal(t, 200*time.Millisecond, v.Now())
	})

	t.Run("stopped timers never fire", func(t *testing.T) {
		t.Parallel()

		v := runloop.NewVirtual()
		fired := false
		timer := v.AfterFunc(time.Second, func() { fired = true })

		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())
		v.Advance(2 * time.Second)

		assert.False(t, fired)
	})

	t.Run("timers scheduled by callbacks fire within the same advance", func(t *testing.T) {
		t.Parallel()

		v := runloop.NewVirtual()
		count := 0
		v.AfterFunc(10*time.Millisecond, func() {
			count++
			v.AfterFunc(10*time.Millisecond, func() { count++ })
		})

		v.Advance(20 * time.Millisecond)

		assert.Equal(t, 2, count)
	})

	t.Run("flushes layout callbacks after each timer", func(t *testing.T) {
		t.Parallel()

		v := runloop.NewVirtual()
		var order []string
		v.AfterFunc(10*time.Millisecond, func() {
			order = append(order, "timer")
			v.AfterLayout(func() { order = append(order, "layout") })
		})
		v.AfterFunc(10*time.Millisecond, func() { order = append(order, "timer2") })

		v.Advance(10 * time.Millisecond)

		assert.Equal(t, []string{"timer", "layout", "timer2"}, order)
	})
}

func TestVirtual_Flush(t *testing.T) {
	t.Parallel()

	v := runloop.NewVirtual()
	var order []int
	v.AfterLayout(func() {
		order = append(order, 1)
		v.AfterLayout(func() { order = append(order, 2) })
	})

	v.Flush()

	assert.Equal(t, []int{1, 2}, order)
}
