package generator

import (
	"context"
	"errors"
	"testing"
	"time"
)

// recordingScheduler swaps the real sleep for one that records requested
// durations and returns immediately.
func recordingScheduler() (*Scheduler, *[]time.Duration) {
	slept := &[]time.Duration{}
	s := NewScheduler()
	s.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return s, slept
}

func rateLimitErr(retryAfter time.Duration) error {
	return &ProviderError{Kind: FailRateLimited, RetryAfter: retryAfter, Message: "too many requests"}
}

func transientErr() error {
	return &ProviderError{Kind: FailTransient, Message: "upstream hiccup"}
}

// scriptedOp fails with each error in sequence, then succeeds.
func scriptedOp(failures ...error) (Operation, *int) {
	calls := new(int)
	op := func(ctx context.Context) (*LLMResponse, error) {
		idx := *calls
		*calls++
		if idx < len(failures) {
			return nil, failures[idx]
		}
		return &LLMResponse{Content: "ok"}, nil
	}
	return op, calls
}

func TestScheduler_SuccessFirstTry(t *testing.T) {
	s, slept := recordingScheduler()
	op, calls := scriptedOp()

	resp, err := s.Execute(context.Background(), op)
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("unexpected response content: %q", resp.Content)
	}
	if *calls != 1 {
		t.Errorf("expected 1 call, got %d", *calls)
	}
	if len(*slept) != 0 {
		t.Errorf("expected no sleeps, got %v", *slept)
	}
}

func TestScheduler_RateLimitedThenSuccess(t *testing.T) {
	s, slept := recordingScheduler()
	op, calls := scriptedOp(rateLimitErr(0))

	resp, err := s.Execute(context.Background(), op)
	if err != nil {
		t.Fatalf("expected success after one rate limit, got: %v", err)
	}
	if resp == nil {
		t.Fatal("expected a response")
	}
	if *calls != 2 {
		t.Errorf("expected 2 calls, got %d", *calls)
	}
	if len(*slept) != 1 || (*slept)[0] != 30*time.Minute {
		t.Errorf("expected a single 30m wait, got %v", *slept)
	}
}

func TestScheduler_RateLimitEscalatesAndCaps(t *testing.T) {
	s, slept := recordingScheduler()
	op, _ := scriptedOp(rateLimitErr(0), rateLimitErr(0), rateLimitErr(0), rateLimitErr(0))

	if _, err := s.Execute(context.Background(), op); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	want := []time.Duration{30 * time.Minute, 60 * time.Minute, 120 * time.Minute, 120 * time.Minute}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("wait %d: expected %v, got %v", i+1, d, (*slept)[i])
		}
	}
}

func TestScheduler_RetryAfterHintWinsWhenLonger(t *testing.T) {
	s, slept := recordingScheduler()
	op, _ := scriptedOp(rateLimitErr(45 * time.Minute))

	if _, err := s.Execute(context.Background(), op); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 45*time.Minute {
		t.Errorf("expected the 45m hint to win over the 30m schedule, got %v", *slept)
	}
}

func TestScheduler_ShortHintDoesNotShrinkWait(t *testing.T) {
	s, slept := recordingScheduler()
	op, _ := scriptedOp(rateLimitErr(time.Minute))

	if _, err := s.Execute(context.Background(), op); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if len(*slept) != 1 || (*slept)[0] != 30*time.Minute {
		t.Errorf("expected the schedule to floor the wait at 30m, got %v", *slept)
	}
}

func TestScheduler_TransientFailuresExhaust(t *testing.T) {
	s, _ := recordingScheduler()
	op, calls := scriptedOp(transientErr(), transientErr(), transientErr(), transientErr())

	_, err := s.Execute(context.Background(), op)
	if err == nil {
		t.Fatal("expected an error after repeated transient failures")
	}
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Errorf("expected ErrExhaustedRetries, got: %v", err)
	}
	if *calls != s.MaxAttempts {
		t.Errorf("expected %d calls, got %d", s.MaxAttempts, *calls)
	}
}

func TestScheduler_RateLimitsNeverCountAsFailures(t *testing.T) {
	s, slept := recordingScheduler()
	failures := make([]error, 0, 10)
	for i := 0; i < 10; i++ {
		failures = append(failures, rateLimitErr(0))
	}
	op, calls := scriptedOp(failures...)

	resp, err := s.Execute(context.Background(), op)
	if err != nil {
		t.Fatalf("expected success after 10 rate limits, got: %v", err)
	}
	if resp == nil {
		t.Fatal("expected a response")
	}
	if *calls != 11 {
		t.Errorf("expected 11 calls, got %d", *calls)
	}
	if len(*slept) != 10 {
		t.Errorf("expected 10 waits, got %d", len(*slept))
	}
	if last := (*slept)[len(*slept)-1]; last != 120*time.Minute {
		t.Errorf("expected the wait to stay capped at 120m, got %v", last)
	}
}

func TestScheduler_MixedFailuresKeepBudgets(t *testing.T) {
	s, slept := recordingScheduler()
	// A rate limit between transient failures must not consume the failure
	// budget: two transients out of three allowed, then success.
	op, calls := scriptedOp(transientErr(), rateLimitErr(0), transientErr())

	if _, err := s.Execute(context.Background(), op); err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if *calls != 4 {
		t.Errorf("expected 4 calls, got %d", *calls)
	}
	// Delay, rate-limit wait, delay.
	if len(*slept) != 3 {
		t.Fatalf("expected 3 sleeps, got %v", *slept)
	}
	if (*slept)[1] != 30*time.Minute {
		t.Errorf("expected the middle wait to be the 30m rate-limit wait, got %v", (*slept)[1])
	}
}

func TestScheduler_CanceledContext(t *testing.T) {
	s, _ := recordingScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op, calls := scriptedOp()
	_, err := s.Execute(ctx, op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if *calls != 0 {
		t.Errorf("expected no provider calls on a canceled context, got %d", *calls)
	}
}

func TestScheduler_CancelDuringWait(t *testing.T) {
	s := NewScheduler()
	s.sleep = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}
	op, _ := scriptedOp(rateLimitErr(0))

	_, err := s.Execute(context.Background(), op)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to surface from the wait, got: %v", err)
	}
}
