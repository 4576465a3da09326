package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/bitecast/bitecast/internal/models"
)

// RetryPolicy bounds how a failed provider call is retried. Only errors
// the Retryable predicate accepts are retried; everything else fails
// the attempt immediately.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Retryable       func(error) bool
}

// DefaultRetryPolicy retries upstream availability failures up to three
// attempts with exponential backoff. Malformed payloads are not
// retried: the upstream would return the same bytes again.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     10 * time.Second,
		Retryable: func(err error) bool {
			return errors.Is(err, models.ErrUpstreamUnavailable)
		},
	}
}

// Do runs op under the policy, stopping early on context cancellation.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval

	attempt := func() error {
		err := op()
		if err != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(attempt, backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1)), ctx))
}
