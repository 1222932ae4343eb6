package fallback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/logging"
)

// State describes what a view is currently showing.
type State string

const (
	// StateLoading means no data is available yet.
	StateLoading State = "loading"

	// StateFallback means bundled data is shown.
	StateFallback State = "fallback"

	// StateLive means the live result is shown.
	StateLive State = "live"

	// StateNotFound means upstream reported the item does not exist.
	StateNotFound State = "not_found"

	// StateUnavailable means the live fetch failed and nothing was bundled.
	StateUnavailable State = "unavailable"
)

// Notices shown to the user. Both are low severity.
const (
	NoticeFallback    = "Live data is temporarily unavailable. Showing saved results."
	NoticeUnavailable = "Live data is unavailable right now. Please try again later."
)

// Snapshot is the resolved display state of a view.
type Snapshot[T any] struct {
	Data   T
	State  State
	Notice string
	Err    error
}

// HasData reports whether Data is meant to be rendered.
func (s Snapshot[T]) HasData() bool {
	return s.State == StateLive || s.State == StateFallback
}

// Settled reports whether the view reached a terminal state. A fallback
// snapshot with a notice is settled; one without is still waiting on the
// live fetch.
func (s Snapshot[T]) Settled() bool {
	switch s.State {
	case StateLive, StateNotFound, StateUnavailable:
		return true
	case StateFallback:
		return s.Err != nil
	default:
		return false
	}
}

// Initial returns the snapshot painted before the live fetch starts.
// fallback is nil when the view has no bundled dataset.
func Initial[T any](fallback *T) Snapshot[T] {
	if fallback == nil {
		return Snapshot[T]{State: StateLoading}
	}
	return Snapshot[T]{Data: *fallback, State: StateFallback}
}

// Resolve picks what to display once the live fetch has finished.
// fallback is nil when the view has no bundled dataset.
func Resolve[T any](live T, err error, fallback *T) Snapshot[T] {
	switch {
	case err == nil:
		return Snapshot[T]{Data: live, State: StateLive}

	case client.IsNotFound(err):
		return Snapshot[T]{State: StateNotFound, Err: err}

	case errors.Is(err, client.ErrCanceled) || errors.Is(err, context.Canceled):
		// Nobody is watching; leave the painted state alone.
		return Initial(fallback)

	case fallback != nil:
		return Snapshot[T]{
			Data:   *fallback,
			State:  StateFallback,
			Notice: NoticeFallback,
			Err:    err,
		}

	default:
		return Snapshot[T]{State: StateUnavailable, Notice: NoticeUnavailable, Err: err}
	}
}

// FetchFunc loads the live data for a view.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// View holds the display state of one load. It is safe for concurrent use.
type View[T any] struct {
	mu   sync.RWMutex
	snap Snapshot[T]
	done chan struct{}
}

// LoadOption configures a Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger zerolog.Logger
}

// WithLogger replaces the "fallback" component logger used for soft failures.
func WithLogger(logger zerolog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = logger }
}

// Load paints the fallback immediately and runs fetch in the background.
// When ctx is cancelled before fetch returns, the late result is discarded
// and the view keeps its initial snapshot.
func Load[T any](ctx context.Context, fallback *T, fetch FetchFunc[T], opts ...LoadOption) *View[T] {
	o := loadOptions{logger: logging.NewLogger("fallback")}
	for _, opt := range opts {
		opt(&o)
	}

	v := &View[T]{
		snap: Initial(fallback),
		done: make(chan struct{}),
	}

	go func() {
		defer close(v.done)

		data, err := fetch(ctx)
		if ctx.Err() != nil {
			return
		}

		snap := Resolve(data, err, fallback)
		if err != nil && snap.State != StateNotFound {
			o.logger.Warn().
				Err(err).
				Str("error_class", string(client.ClassOf(err))).
				Str("state", string(snap.State)).
				Msg("Live fetch failed")
		}

		v.mu.Lock()
		v.snap = snap
		v.mu.Unlock()
	}()

	return v
}

// Snapshot returns the current display state.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// Done is closed once the background fetch has finished or was discarded.
func (v *View[T]) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the fetch finishes or ctx is done and returns the
// snapshot at that point. The error is ctx.Err() when ctx ended first.
func (v *View[T]) Wait(ctx context.Context) (Snapshot[T], error) {
	select {
	case <-v.done:
		return v.Snapshot(), nil
	case <-ctx.Done():
		return v.Snapshot(), ctx.Err()
	}
}

// WaitFor waits at most budget. The bool is false when the budget ran out
// before the fetch finished; the snapshot is then whatever is painted.
func (v *View[T]) WaitFor(ctx context.Context, budget time.Duration) (Snapshot[T], bool) {
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	snap, err := v.Wait(ctx)
	return snap, err == nil
}
