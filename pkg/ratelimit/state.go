// Package ratelimit paces outbound Jikan requests. Jikan allows roughly three
// requests per second per client; a Throttle spaces dispatches by a minimum
// interval no matter how many goroutines issue requests at once.
package ratelimit

import (
	"time"
)

// DefaultInterval is the minimum spacing between two dispatches (~3 req/s).
const DefaultInterval = 334 * time.Millisecond

// ThrottleState is a snapshot of a throttle's pacing state.
type ThrottleState struct {
	// LastDispatch is the slot granted to the most recent dispatch.
	// Zero when nothing has been dispatched yet.
	LastDispatch time.Time `json:"last_dispatch"`

	// Dispatches is the number of slots granted so far.
	Dispatches int64 `json:"dispatches"`

	// TotalWait is the cumulative time callers spent suspended for a slot.
	TotalWait time.Duration `json:"total_wait"`

	// Interval is the configured minimum spacing.
	Interval time.Duration `json:"interval"`
}

// IsIdle returns true if no dispatch happened within the given duration.
func (s ThrottleState) IsIdle(d time.Duration) bool {
	return s.LastDispatch.IsZero() || time.Since(s.LastDispatch) > d
}

// NextSlot returns the earliest time a new dispatch could be granted.
func (s ThrottleState) NextSlot() time.Time {
	if s.LastDispatch.IsZero() {
		return time.Time{}
	}
	return s.LastDispatch.Add(s.Interval)
}

// AverageWait returns the mean suspension per dispatch.
func (s ThrottleState) AverageWait() time.Duration {
	if s.Dispatches == 0 {
		return 0
	}
	return s.TotalWait / time.Duration(s.Dispatches)
}
