package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Prometheus metrics for dispatch pacing.
var (
	jikanDispatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jikan_dispatches_total",
		Help: "Total number of dispatch slots granted by the throttle",
	})

	jikanThrottleWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "jikan_throttle_wait_seconds",
		Help:    "Time callers spent suspended waiting for a dispatch slot",
		Buckets: []float64{0, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// ErrReservationRefused is returned when the limiter cannot grant a slot.
var ErrReservationRefused = errors.New("throttle reservation refused")

// Throttle enforces a minimum interval between dispatches.
//
// Slots are reserved from a token bucket with a burst of one, so concurrent
// callers are granted slots in arrival order, each at least Interval after
// the previous one. A Throttle is meant to be shared by every client that
// talks to the same upstream; independent throttles do not coordinate.
type Throttle struct {
	limiter  *rate.Limiter
	interval time.Duration
	logger   zerolog.Logger

	mu    sync.Mutex
	state ThrottleState
}

// NewThrottle creates a throttle. An interval <= 0 disables pacing.
func NewThrottle(interval time.Duration, logger zerolog.Logger) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	} else {
		interval = 0
	}

	return &Throttle{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
		logger:   logger,
		state:    ThrottleState{Interval: interval},
	}
}

// Interval returns the configured minimum spacing.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// Wait suspends the caller until its dispatch slot and returns the slot.
// If ctx ends first the reservation is handed back and ctx.Err() returned.
func (t *Throttle) Wait(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	// Reading the clock and reserving happen under one lock so reservation
	// order and timestamp order agree.
	t.mu.Lock()
	now := time.Now()
	r := t.limiter.ReserveN(now, 1)
	t.mu.Unlock()
	if !r.OK() {
		return time.Time{}, ErrReservationRefused
	}

	delay := r.DelayFrom(now)
	slot := now.Add(delay)

	if delay > 0 {
		t.logger.Debug().
			Dur("wait", delay).
			Msg("Throttling dispatch")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.CancelAt(time.Now())
			return time.Time{}, ctx.Err()
		case <-timer.C:
		}
	}

	t.record(slot, delay)
	return slot, nil
}

func (t *Throttle) record(slot time.Time, waited time.Duration) {
	t.mu.Lock()
	if slot.After(t.state.LastDispatch) {
		t.state.LastDispatch = slot
	}
	t.state.Dispatches++
	t.state.TotalWait += waited
	t.mu.Unlock()

	jikanDispatchesTotal.Inc()
	jikanThrottleWaitSeconds.Observe(waited.Seconds())
}

// State returns a snapshot of the pacing state.
func (t *Throttle) State() ThrottleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
