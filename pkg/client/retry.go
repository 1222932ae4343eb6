package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	jikanRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	jikanRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jikan_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	jikanRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jikan_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	// RateLimitCooldown is the pause after a 429 response.
	RateLimitCooldown time.Duration

	// ServerErrorCooldown is the pause after a 5xx response.
	ServerErrorCooldown time.Duration

	// TimeoutCooldown is the pause after an attempt ran past its deadline.
	TimeoutCooldown time.Duration

	// BackoffMultiplier scales the cooldown per attempt. 1.0 keeps it fixed.
	BackoffMultiplier float64

	// MaxBackoff caps a single cooldown.
	MaxBackoff time.Duration

	// Jitter is the random spread applied to a cooldown, as a fraction (0.2 = ±20%).
	Jitter float64
}

// DefaultRetryConfig returns the default retry configuration: two retries
// with fixed cooldowns, matching Jikan's burst recovery window.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:         3,
		RateLimitCooldown:   2 * time.Second,
		ServerErrorCooldown: 2 * time.Second,
		TimeoutCooldown:     1 * time.Second,
		BackoffMultiplier:   1.0,
		MaxBackoff:          30 * time.Second,
		Jitter:              0,
	}
}

// Validate rejects configurations the retry loop cannot honour.
func (c RetryConfig) Validate() error {
	switch {
	case c.MaxAttempts < 1:
		return fmt.Errorf("max attempts must be >= 1 (got %d)", c.MaxAttempts)
	case c.RateLimitCooldown < 0 || c.ServerErrorCooldown < 0 || c.TimeoutCooldown < 0:
		return fmt.Errorf("cooldowns must not be negative")
	case c.BackoffMultiplier < 1:
		return fmt.Errorf("backoff multiplier must be >= 1 (got %g)", c.BackoffMultiplier)
	case c.MaxBackoff < 0:
		return fmt.Errorf("max backoff must not be negative")
	case c.Jitter < 0 || c.Jitter >= 1:
		return fmt.Errorf("jitter must be in [0, 1) (got %g)", c.Jitter)
	}
	return nil
}

// Cooldown returns the pause before the attempt following a failed attempt
// number attempt (1-based) of the given class.
func (c RetryConfig) Cooldown(errorClass ErrorClass, attempt int) time.Duration {
	var base time.Duration
	switch errorClass {
	case ErrorClassRateLimit:
		base = c.RateLimitCooldown
	case ErrorClassServer:
		base = c.ServerErrorCooldown
	case ErrorClassTimeout:
		base = c.TimeoutCooldown
	default:
		return 0
	}

	backoff := float64(base)
	if c.BackoffMultiplier > 1 && attempt > 1 {
		backoff *= math.Pow(c.BackoffMultiplier, float64(attempt-1))
	}
	if c.MaxBackoff > 0 && backoff > float64(c.MaxBackoff) {
		backoff = float64(c.MaxBackoff)
	}
	if c.Jitter > 0 {
		backoff *= 1 - c.Jitter + rand.Float64()*2*c.Jitter
	}
	return time.Duration(backoff)
}

// retryWithBackoff runs fn until it succeeds, fails with a class that is not
// retried, or MaxAttempts is reached. fn receives the 1-based attempt number.
// It returns the number of attempts made. Errors returned as *APIError get
// their Attempts field set.
func retryWithBackoff(ctx context.Context, config RetryConfig, logger zerolog.Logger, fn func(attempt int) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return attempt, nil
		}

		lastErr = err
		errorClass := ClassOf(err)

		if !shouldRetry(errorClass) {
			return attempt, withAttempts(err, attempt)
		}

		// If this was the last attempt, don't wait
		if attempt >= config.MaxAttempts {
			break
		}

		backoff := config.Cooldown(errorClass, attempt)
		jikanRetriesTotal.WithLabelValues(string(errorClass)).Inc()
		jikanRetryBackoffSeconds.WithLabelValues(string(errorClass)).Observe(backoff.Seconds())

		logger.Warn().
			Str("error_class", string(errorClass)).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("Retrying request after cooldown")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Debug().
				Str("error_class", string(errorClass)).
				Int("attempt", attempt).
				Msg("Context cancelled during retry cooldown")
			return attempt, &APIError{
				ErrorClass: ErrorClassCanceled,
				Message:    "cancelled during retry cooldown",
				Attempts:   attempt,
				Err:        ctx.Err(),
			}
		case <-timer.C:
		}
	}

	errorClass := ClassOf(lastErr)
	jikanRetryExhaustedTotal.WithLabelValues(string(errorClass)).Inc()
	logger.Error().
		Str("error_class", string(errorClass)).
		Int("max_attempts", config.MaxAttempts).
		Msg("Retry attempts exhausted")

	return config.MaxAttempts, withAttempts(lastErr, config.MaxAttempts)
}

func withAttempts(err error, attempts int) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.Attempts = attempts
	}
	return err
}
