package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestBreakerStaysClosedOnSuccess(t *testing.T) {
	b := NewBreaker(3, time.Minute)
	for i := 0; i < 10; i++ {
		if err := b.Execute(func() error { return nil }); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	err := b.Execute(func() error {
		t.Fatal("call must not run while open")
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	_ = b.Execute(func() error { return errBoom })
	_ = b.Execute(func() error { return errBoom })
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("success call: %v", err)
	}

	// Two more failures should not trip the threshold of three.
	_ = b.Execute(func() error { return errBoom })
	if err := b.Execute(func() error { return errBoom }); errors.Is(err, ErrCircuitOpen) {
		t.Fatal("circuit opened despite reset")
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	current := time.Unix(1000, 0)
	b := NewBreaker(1, 30*time.Second)
	b.now = func() time.Time { return current }

	_ = b.Execute(func() error { return errBoom })
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	// After the timeout a single probe is admitted; success closes the circuit.
	current = current.Add(31 * time.Second)
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("post-probe call: %v", err)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	current := time.Unix(1000, 0)
	b := NewBreaker(1, 30*time.Second)
	b.now = func() time.Time { return current }

	_ = b.Execute(func() error { return errBoom })

	current = current.Add(31 * time.Second)
	if err := b.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("probe call: expected boom, got %v", err)
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened circuit, got %v", err)
	}
}
