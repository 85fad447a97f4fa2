// Package debounce delays an action until its caller has gone quiet.
//
// Each call restarts the delay and replaces the pending action, so a burst
// of calls results in a single invocation carrying the latest arguments:
//
//	search := debounce.Func(func(q string) {
//	    navigate(urlquery.Form(path, query, "query", q))
//	}, 300*time.Millisecond)
//
//	search("c")
//	search("ca")
//	search("cat") // only this one runs, 300ms after the last call
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds at most one pending invocation.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	pending  func()
	duration time.Duration

	// gen identifies the current schedule so a timer that already fired but
	// lost the race with a newer Do does not run a stale action.
	gen uint64
}

// New creates a debouncer with the given delay.
func New(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Duration returns the configured delay.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

// Do schedules fn to run after the delay. A previously scheduled function
// that has not run yet is cancelled and replaced.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.duration, func() {
		d.fire(gen)
	})
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending invocation, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
}

// Flush runs the pending invocation now instead of waiting for the delay.
// It reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.gen++
	d.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Func wraps fn so that calls are debounced by delay. Only the argument of
// the last call in a burst reaches fn.
func Func[T any](fn func(T), delay time.Duration) func(T) {
	d := New(delay)
	return func(arg T) {
		d.Do(func() { fn(arg) })
	}
}

// Func0 is Func for functions without arguments.
func Func0(fn func(), delay time.Duration) func() {
	d := New(delay)
	return func() {
		d.Do(fn)
	}
}
