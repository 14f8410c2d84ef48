package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetry_Success(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	}, testConfig(), nil)

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetry_FailureThenSuccess(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, testConfig(), nil)

	if err != nil {
		t.Errorf("Expected no error after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_MaxAttempts(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("persistent error")
	}, testConfig(), nil)

	if err == nil {
		t.Error("Expected error after max attempts")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	fatal := errors.New("bad input")
	attempts := 0
	err := Retry(context.Background(), func(ctx context.Context) error {
		attempts++
		return fatal
	}, testConfig(), func(err error) bool {
		return false
	})

	if !errors.Is(err, fatal) {
		t.Errorf("Expected the original error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := Retry(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("temporary error")
	}, testConfig(), nil)

	if err == nil {
		t.Error("Expected error when context is cancelled")
	}
	if attempts != 1 {
		t.Errorf("Expected retries to stop after cancel, got %d attempts", attempts)
	}
}

func TestIsTransientNetworkError(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("api error SlowDown: please reduce request rate"), true},
		{errors.New("NoSuchKey: the specified key does not exist"), false},
		{errors.New("access denied"), false},
	}

	for _, tt := range tests {
		if got := IsTransientNetworkError(tt.err); got != tt.retryable {
			t.Errorf("IsTransientNetworkError(%v) = %v, want %v", tt.err, got, tt.retryable)
		}
	}
}
