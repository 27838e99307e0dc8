package dispatch

import "time"

// Scheduler defers a function call. Retries run through it instead of
// worker goroutines, so backoff never consumes a worker slot and tests can
// substitute a virtual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler is the production scheduler backed by the runtime timers.
// Pending timers are abandoned on process shutdown.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
