package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	result := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		return nil
	})
	if result.Err != nil {
		t.Fatalf("Err = %v, want nil", result.Err)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if result.Err != nil {
		t.Fatalf("Err = %v, want nil", result.Err)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	transient := errors.New("transient")
	calls := 0
	result := Do(context.Background(), fastConfig(2), func(ctx context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(result.Err, ErrMaxRetriesExceeded) {
		t.Fatalf("Err = %v, want ErrMaxRetriesExceeded", result.Err)
	}
	if !errors.Is(result.LastError, transient) {
		t.Errorf("LastError = %v, want the operation error", result.LastError)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("not found")
	calls := 0
	result := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		return Permanent(permanent)
	})
	if !errors.Is(result.Err, permanent) {
		t.Fatalf("Err = %v, want the permanent error", result.Err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	result := Do(ctx, &Config{MaxRetries: 5, InitialInterval: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Fatalf("Err = %v, want ErrContextCanceled", result.Err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIntervalIsCapped(t *testing.T) {
	r := New(&Config{
		MaxRetries:      10,
		InitialInterval: time.Second,
		MaxInterval:     4 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0,
	})
	if got := r.interval(10); got > 4*time.Second {
		t.Errorf("interval(10) = %v, want capped at 4s", got)
	}
	if got := r.interval(0); got != time.Second {
		t.Errorf("interval(0) = %v, want 1s", got)
	}
}
