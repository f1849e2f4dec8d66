package commands

import (
	"context"
	"time"

	"assetsync/internal/pkg/errs"
	"assetsync/internal/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds how often a transaction is re-run. Losing a version
// compare-and-swap and failing to reach the store draw from separate budgets.
// Each attempt re-reads the rows, so preconditions are evaluated against
// fresh state.
type RetryPolicy struct {
	MaxAttempts uint64
	// UnavailableAttempts bounds attempts that failed with an UnavailableError.
	UnavailableAttempts uint64
	InitialInterval     time.Duration
	MaxInterval         time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:         4,
		UnavailableAttempts: 3,
		InitialInterval:     5 * time.Millisecond,
		MaxInterval:         100 * time.Millisecond,
	}
}

// NoRetry runs every transaction exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1, UnavailableAttempts: 1}
}

// run executes attempt until it succeeds, fails with an error that is neither
// a version conflict nor unavailability, or a budget is exhausted. Exhausted
// version conflicts surface as ConflictError on resource/id; exhausted
// unavailability surfaces unchanged.
func (p RetryPolicy) run(
	ctx context.Context,
	op string,
	resource string,
	id any,
	attempt func() error,
) error {
	conflictBudget := max(p.MaxAttempts, 1)
	outageBudget := max(p.UnavailableAttempts, 1)

	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0

	var conflicts, outages uint64
	err := backoff.Retry(func() error {
		if conflicts+outages > 0 {
			metrics.AssignmentRetriesTotal.WithLabelValues(op).Inc()
		}

		err := attempt()
		switch {
		case err == nil:
			return nil
		case errs.IsRetryable(err):
			conflicts++
			if conflicts >= conflictBudget {
				return backoff.Permanent(err)
			}
			return err
		case errs.IsTransient(err):
			outages++
			if outages >= outageBudget {
				return backoff.Permanent(err)
			}
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))

	if err != nil && errs.IsRetryable(err) {
		return errs.NewConflictErrorWithCause(resource, id, "concurrent update", err)
	}
	return err
}
