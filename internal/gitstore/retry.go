package gitstore

import (
	"context"
	"errors"
	"time"
)

const (
	defaultAttempts = 3
	defaultDelay    = time.Second
)

// Retryer wraps a single backend call with bounded retries on transient
// failure. Conflict, unauthorized and not-found errors are terminal and
// propagate unchanged. The zero value retries 3 times with a linearly
// growing delay (1s, then 2s), matching the backend's write retry policy.
type Retryer struct {
	// Attempts is the total attempt ceiling, including the first call.
	Attempts int

	// Delay is the base wait; attempt n sleeps n×Delay before retrying.
	Delay time.Duration

	// Sleep is replaced in tests. The default honors context cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do runs op, retrying while it fails with ErrTransient. The final
// attempt's error is returned unchanged.
func (r Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	delay := r.Delay
	if delay <= 0 {
		delay = defaultDelay
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = op(ctx)
		if err == nil || !errors.Is(err, ErrTransient) {
			return err
		}
		if attempt == attempts {
			return err
		}
		if serr := sleep(ctx, time.Duration(attempt)*delay); serr != nil {
			return serr
		}
	}
}

// DoFresh runs a revision-guarded write, re-fetching the revision inside
// every attempt. Capturing a revision once and reusing it across retries
// would silently overwrite concurrent changes, so the revision source is a
// provider, not a value.
func (r Retryer) DoFresh(ctx context.Context, fetch func(ctx context.Context) (string, error), write func(ctx context.Context, revision string) error) error {
	return r.Do(ctx, func(ctx context.Context) error {
		revision, err := fetch(ctx)
		if err != nil {
			return err
		}
		return write(ctx, revision)
	})
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
