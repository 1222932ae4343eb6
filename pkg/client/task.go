package client

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is the terminal state of a FetchTask.
type Outcome string

const (
	OutcomePending      Outcome = "pending"
	OutcomeSuccess      Outcome = "success"
	OutcomeRateLimited  Outcome = "rate_limited"
	OutcomeServerError  Outcome = "server_error"
	OutcomeTimeout      Outcome = "timeout"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeClientError  Outcome = "client_error"
	OutcomeCanceled     Outcome = "canceled"
)

// FetchTask records one logical request from dispatch to its terminal outcome.
// Attempts counts network attempts only; a cache hit finishes with zero.
type FetchTask struct {
	ID        uuid.UUID     `json:"id"`
	URL       string        `json:"url"`
	Endpoint  string        `json:"endpoint"`
	Attempts  int           `json:"attempts"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Outcome   Outcome       `json:"outcome"`
}

func newTask(url, endpoint string) *FetchTask {
	return &FetchTask{
		ID:        uuid.New(),
		URL:       url,
		Endpoint:  endpoint,
		StartedAt: time.Now(),
		Outcome:   OutcomePending,
	}
}

// finish records the terminal outcome. Only the first call has an effect.
func (t *FetchTask) finish(outcome Outcome) {
	if t.Outcome != OutcomePending {
		return
	}
	t.Outcome = outcome
	t.Elapsed = time.Since(t.StartedAt)
}

// Done reports whether the task reached a terminal outcome.
func (t *FetchTask) Done() bool {
	return t.Outcome != OutcomePending
}

func outcomeFor(class ErrorClass) Outcome {
	switch class {
	case ErrorClassRateLimit:
		return OutcomeRateLimited
	case ErrorClassServer:
		return OutcomeServerError
	case ErrorClassTimeout:
		return OutcomeTimeout
	case ErrorClassNetwork:
		return OutcomeNetworkError
	case ErrorClassNotFound:
		return OutcomeNotFound
	case ErrorClassCanceled:
		return OutcomeCanceled
	default:
		return OutcomeClientError
	}
}
