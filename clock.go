package recinject

import "time"

// Clock is the source of time for the pipeline: the footer year and the
// mobile menu's deferred hide both go through it.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed, unless
	// the returned Timer is stopped first.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call scheduled by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the call from happening. It returns false if the
	// call already happened or was already stopped.
	Stop() bool
}

// SystemClock is a Clock backed by the time package, using local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
