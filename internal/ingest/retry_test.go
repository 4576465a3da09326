package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bitecast/bitecast/internal/models"
)

func fastPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	p.InitialInterval = time.Millisecond
	p.MaxInterval = 5 * time.Millisecond
	return p
}

func TestRetry_RetriesUpstreamFailures(t *testing.T) {
	policy := fastPolicy()

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: boom", models.ErrUpstreamUnavailable)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	policy := fastPolicy()

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: boom", models.ErrUpstreamUnavailable)
	})
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_BadPayloadIsNotRetried(t *testing.T) {
	policy := fastPolicy()

	calls := 0
	err := policy.Do(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: empty list", models.ErrBadPayload)
	})
	if !errors.Is(err, models.ErrBadPayload) {
		t.Errorf("err = %v, want ErrBadPayload", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_ContextCancelStopsRetrying(t *testing.T) {
	policy := fastPolicy()
	policy.InitialInterval = time.Second

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	errc := make(chan error, 1)
	go func() {
		errc <- policy.Do(ctx, func() error {
			calls++
			return fmt.Errorf("%w: boom", models.ErrUpstreamUnavailable)
		})
	}()

	cancel()
	select {
	case err := <-errc:
		if err == nil {
			t.Error("Do returned nil after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after context cancel")
	}
}
