// Package wait polls a probe until it reports ready, a deadline passes, or the
// context is cancelled.
package wait

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the probe did not report ready before the timeout
var ErrTimeout = errors.New("wait: timed out")

// Options configures a wait
type Options struct {
	// Interval between probes
	Interval time.Duration
	// Timeout is the total budget, measured from the first probe
	Timeout time.Duration
}

// Probe checks a condition once. It returns the value and whether it is ready.
// A non-nil error aborts the wait.
type Probe[T any] func(ctx context.Context) (T, bool, error)

// For calls probe immediately and then every opts.Interval until it reports ready.
//
// It returns ErrTimeout when opts.Timeout elapses first and ctx.Err() when the
// context is cancelled first.
func For[T any](ctx context.Context, opts Options, probe Probe[T]) (T, error) {
	var zero T

	if opts.Interval <= 0 {
		return zero, errors.New("wait: interval must be positive")
	}

	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, ready, err := probe(ctx)
		if err != nil {
			return zero, err
		}
		if ready {
			return value, nil
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-deadline.C:
			return zero, ErrTimeout
		case <-ticker.C:
		}
	}
}
