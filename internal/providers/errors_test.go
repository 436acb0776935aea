package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestRateLimitErrorString(t *testing.T) {
	err := &RateLimitError{Provider: "covergrid", StatusCode: 429}
	if got := err.Error(); got != "provider rate limited (status=429)" {
		t.Fatalf("unexpected message: %q", got)
	}

	err = &RateLimitError{Message: "slow down"}
	if got := err.Error(); got != "slow down" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestAsRateLimitErrorUnwraps(t *testing.T) {
	inner := &RateLimitError{Provider: "covergrid"}
	wrapped := fmt.Errorf("fetch artwork: %w", inner)

	got, ok := AsRateLimitError(wrapped)
	if !ok || got.Provider != "covergrid" {
		t.Fatalf("expected unwrapped rate limit error, got %v ok=%v", got, ok)
	}

	if _, ok := AsRateLimitError(errors.New("plain")); ok {
		t.Fatalf("expected plain error to not match")
	}
}
