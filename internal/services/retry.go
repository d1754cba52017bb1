package services

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/todamoon/terminal/internal/config"
)

// RetryPolicy bounds every record store call: a per-attempt timeout and a
// capped number of attempts separated by jittered exponential backoff.
type RetryPolicy struct {
	Timeout      time.Duration
	MaxAttempts  uint
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// NewRetryPolicy creates a retry policy from the store config.
func NewRetryPolicy(cfg config.StoreConfig) RetryPolicy {
	return RetryPolicy{
		Timeout:      cfg.Timeout,
		MaxAttempts:  cfg.MaxAttempts,
		RetryInitial: cfg.RetryInitial,
		RetryMax:     cfg.RetryMax,
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	if p.RetryInitial > 0 {
		b.InitialInterval = p.RetryInitial
	}
	if p.RetryMax > 0 {
		b.MaxInterval = p.RetryMax
	}
	return b
}

// withRetry runs op until it succeeds, returns a backoff.Permanent error, or
// the attempt budget is spent.
func withRetry[T any](ctx context.Context, p RetryPolicy, tag string, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}
		return op(attemptCtx)
	},
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("[%s] Retrying in %s: %v", tag, next, err)
		}),
	)
}
