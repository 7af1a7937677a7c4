// Package retry implements bounded retries with exponential backoff and
// jitter. Operations run until success, a permanent error, context
// cancellation or the attempt budget is spent.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Common errors
var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retries after the initial attempt
	MaxRetries int
	// InitialInterval is the first backoff interval (default: 1s)
	InitialInterval time.Duration
	// MaxInterval caps the backoff interval (default: 30s)
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry (default: 2.0)
	Multiplier float64
	// JitterFactor adds ±factor random jitter to intervals (default: 0.1)
	JitterFactor float64
}

// DefaultConfig returns the default backoff schedule: 1s, 2s, 4s, ... capped at 30s
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      5,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError wraps an error that must not be retried
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result reports the outcome of a retried operation
type Result struct {
	// Err is nil on success, otherwise the classification of the failure
	Err error
	// LastError is the error from the final attempt
	LastError error
	// Attempts is the total number of attempts made
	Attempts int
}

// Retrier executes operations under a retry policy
type Retrier struct {
	config *Config
}

// New creates a Retrier, filling zero config values with defaults
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 1 * time.Second
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 30 * time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFactor < 0 || config.JitterFactor > 1 {
		config.JitterFactor = 0.1
	}
	return &Retrier{config: config}
}

// Do executes op under the retry policy
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	result := &Result{}
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if ctx.Err() != nil {
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		}

		err := op(ctx)
		if err == nil {
			return result
		}
		lastErr = err

		var permErr *PermanentError
		if errors.As(err, &permErr) {
			result.Err = permErr.Err
			result.LastError = permErr.Err
			return result
		}

		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		case <-time.After(r.interval(attempt)):
		}
	}

	result.Err = ErrMaxRetriesExceeded
	result.LastError = lastErr
	return result
}

// Do is a convenience wrapper around New(config).Do
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op)
}

// interval computes the backoff for a given attempt
func (r *Retrier) interval(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval += (rand.Float64()*2 - 1) * jitter
	}
	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval < 0 {
		interval = float64(r.config.InitialInterval)
	}
	return time.Duration(interval)
}
