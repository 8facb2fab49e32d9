package middleware

import "time"

// SetSlowRequestThreshold overrides the slow request threshold for a test
// and returns a func that restores it.
func SetSlowRequestThreshold(d time.Duration) (restore func()) {
	prev := slowRequestThreshold
	slowRequestThreshold = d
	return func() { slowRequestThreshold = prev }
}
