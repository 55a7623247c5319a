package generator

import (
	"errors"
	"fmt"
	"time"
)

// FailureKind classifies a provider failure; the scheduler keys its retry
// policy off it.
type FailureKind string

const (
	FailRateLimited FailureKind = "rate_limited"
	FailMalformed   FailureKind = "malformed"
	FailTransient   FailureKind = "transient"
	FailFatal       FailureKind = "fatal"
)

// ProviderError is the typed failure every provider client returns.
// RetryAfter is an optional hint extracted from the provider's response and
// only meaningful for FailRateLimited.
type ProviderError struct {
	Kind       FailureKind
	RetryAfter time.Duration
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Pipeline-level sentinel errors. Callers match with errors.Is and skip the
// current unit of work (one context or one question slot); these never abort
// a whole run.
var (
	ErrDuplicateContent = errors.New("duplicate content")
	ErrExhaustedRetries = errors.New("exhausted retries")
)

// rateLimitHint reports whether err is a rate-limit failure and returns its
// retry-after hint if one was supplied.
func rateLimitHint(err error) (time.Duration, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Kind == FailRateLimited {
		return pe.RetryAfter, true
	}
	return 0, false
}
