package collapse

import "time"

// Timer is a pending callback scheduled with Scheduler.AfterFunc.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already ran or was stopped.
	Stop() bool
}

// Scheduler defers work on the goroutine that owns the page. The only
// suspension points of the disclosure layer are scheduler callbacks.
type Scheduler interface {
	// AfterFunc runs f once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// AfterLayout runs f once the current batch of mutations has settled,
	// so that f observes post-mutation geometry.
	AfterLayout(f func())
}
