package runloop

import (
	"time"

	"github.com/fwojciec/collapse"
)

// Ensure Virtual implements collapse.Scheduler at compile time.
var _ collapse.Scheduler = (*Virtual)(nil)

// Virtual is a Scheduler whose clock only moves when Advance is called.
// Timers due at the same instant fire in the order they were scheduled, and
// layout callbacks are flushed after every timer callback.
//
// Virtual is not safe for concurrent use.
type Virtual struct {
	now    time.Duration
	seq    int
	timers []*virtualTimer
	frames []func()
}

// NewVirtual returns a Virtual clock at time zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Now returns the time elapsed since the clock was created.
func (v *Virtual) Now() time.Duration {
	return v.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (v *Virtual) Pending() int {
	return len(v.timers)
}

// AfterFunc schedules f to run when the clock reaches now+d.
func (v *Virtual) AfterFunc(d time.Duration, f func()) collapse.Timer {
	if d < 0 {
		d = 0
	}
	t := &virtualTimer{v: v, due: v.now + d, seq: v.seq, f: f}
	v.seq++
	v.timers = append(v.timers, t)
	return t
}

// AfterLayout queues f until the next Flush.
func (v *Virtual) AfterLayout(f func()) {
	v.frames = append(v.frames, f)
}

// Flush runs queued layout callbacks, including ones queued while flushing.
func (v *Virtual) Flush() {
	for len(v.frames) > 0 {
		frames := v.frames
		v.frames = nil
		for _, f := range frames {
			f()
		}
	}
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (v *Virtual) Advance(d time.Duration) {
	end := v.now + d
	for {
		t := v.nextDue(end)
		if t == nil {
			break
		}
		v.now = t.due
		v.remove(t)
		t.f()
		v.Flush()
	}
	v.now = end
	v.Flush()
}

func (v *Virtual) nextDue(end time.Duration) *virtualTimer {
	var next *virtualTimer
	for _, t := range v.timers {
		if t.due > end {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (v *Virtual) remove(t *virtualTimer) bool {
	for i, other := range v.timers {
		if other == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return true
		}
	}
	return false
}

type virtualTimer struct {
	v   *Virtual
	due time.Duration
	seq int
	f   func()
}

func (t *virtualTimer) Stop() bool {
	return t.v.remove(t)
}
