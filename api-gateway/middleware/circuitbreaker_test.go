package middleware

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("api", 3, time.Minute)
	boom := errors.New("upstream down")

	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	if err := cb.Call(func() error { return nil }); err == nil {
		t.Fatal("expected open circuit to reject the call")
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("api", 1, 10*time.Millisecond)
	if err := cb.Call(func() error { return errors.New("down") }); err == nil {
		t.Fatal("expected failure to propagate")
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("probe %d: expected success, got %v", i, err)
		}
	}

	if cb.State() != StateClosed {
		t.Fatalf("expected closed state after recovery, got %s", cb.State())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	t.Parallel()

	cb := NewCircuitBreaker("api", 2, time.Minute)
	boom := errors.New("down")

	_ = cb.Call(func() error { return boom })
	_ = cb.Call(func() error { return nil })
	_ = cb.Call(func() error { return boom })

	if cb.State() != StateClosed {
		t.Fatalf("expected closed state, got %s", cb.State())
	}
}

func TestServiceForPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/auth/login":  "api",
		"/users/me":    "api",
		"/song/list":   "api",
		"/song/fav/s1": "api",
		"/health":      "",
		"/":            "",
		"/metrics":     "",
		"/swagger/doc": "",
	}
	for path, want := range cases {
		if got := serviceForPath(path); got != want {
			t.Fatalf("path %q: expected %q, got %q", path, want, got)
		}
	}
}
