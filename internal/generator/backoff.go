package generator

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Operation is one provider call. The scheduler owns every retry decision so
// callers never see a rate limit: they see the response, a canceled context,
// or ErrExhaustedRetries.
type Operation func(ctx context.Context) (*LLMResponse, error)

// Scheduler wraps provider calls with the two retry regimes the pipeline
// needs. Rate limits are not failures: the run sleeps on an escalating
// schedule and tries again for as long as it takes. Everything else gets
// MaxAttempts tries with a short fixed delay, then the unit of work is
// abandoned.
type Scheduler struct {
	// RateLimitWaits escalates per consecutive rate-limited call and stays
	// capped at the last entry. A Retry-After hint from the provider wins
	// when it asks for longer.
	RateLimitWaits []time.Duration
	MaxAttempts    int
	RetryDelay     time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		RateLimitWaits: []time.Duration{30 * time.Minute, 60 * time.Minute, 120 * time.Minute},
		MaxAttempts:    3,
		RetryDelay:     2 * time.Second,
		sleep:          sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Execute runs op until it succeeds, the context is canceled, or MaxAttempts
// non-rate-limit failures accumulate. A successful call resets nothing: the
// rate-limit escalation counts consecutive limited calls only, and the
// failure budget belongs to this Execute alone.
func (s *Scheduler) Execute(ctx context.Context, op Operation) (*LLMResponse, error) {
	rateLimited := 0
	failures := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := op(ctx)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if hint, ok := rateLimitHint(err); ok {
			wait := s.RateLimitWaits[min(rateLimited, len(s.RateLimitWaits)-1)]
			if hint > wait {
				wait = hint
			}
			rateLimited++
			log.Printf("[scheduler] WARN: rate limited, sleeping %v (limited %d times): %v", wait, rateLimited, err)
			if err := s.sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		rateLimited = 0
		failures++
		if failures >= s.MaxAttempts {
			return nil, fmt.Errorf("%d provider failures, last: %v: %w", failures, err, ErrExhaustedRetries)
		}
		log.Printf("[scheduler] WARN: provider call failed (%d/%d), retrying in %v: %v", failures, s.MaxAttempts, s.RetryDelay, err)
		if err := s.sleep(ctx, s.RetryDelay); err != nil {
			return nil, err
		}
	}
}
