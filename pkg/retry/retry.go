package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Func is an operation that can be retried
type Func func(ctx context.Context) error

// Classifier reports whether an error is worth another attempt
type Classifier func(error) bool

// Options configures the backoff loop
type Options struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Classifier      Classifier
	// OnRetry, if set, is called before sleeping between attempts
	OnRetry func(attempt int, err error, wait time.Duration)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that Do returns it without further attempts
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// DefaultOptions retries everything not marked Permanent, up to 4 attempts
func DefaultOptions() Options {
	return Options{
		MaxAttempts:     4,
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Classifier: func(err error) bool {
			return !IsPermanent(err)
		},
	}
}

// Do runs fn until it succeeds, the classifier rejects the error,
// attempts run out, or ctx is done. Permanent errors are returned unwrapped.
func Do(ctx context.Context, fn Func, opts Options) error {
	var lastErr error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return errors.Unwrap(err)
		}
		if opts.Classifier != nil && !opts.Classifier(err) {
			return err
		}

		if attempt == opts.MaxAttempts {
			break
		}

		wait := Backoff(attempt, opts)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Backoff returns the wait after the given failed attempt, capped at MaxInterval
func Backoff(attempt int, opts Options) time.Duration {
	if attempt <= 1 {
		return opts.InitialInterval
	}

	interval := float64(opts.InitialInterval) * math.Pow(opts.Multiplier, float64(attempt-1))
	if interval > float64(opts.MaxInterval) {
		return opts.MaxInterval
	}
	return time.Duration(interval)
}
