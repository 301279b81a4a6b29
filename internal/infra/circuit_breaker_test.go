package infra

import (
	"testing"
	"time"
)

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          timeout,
	})
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	for i := 0; i < 2; i++ {
		cb.RecordFailure()
		if cb.GetState() != StateClosed {
			t.Fatalf("breaker opened after %d failures", i+1)
		}
	}

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Error("breaker should open at the failure threshold")
	}
	if cb.Allow() {
		t.Error("open breaker should reject requests")
	}
}

func TestCircuitBreakerSuccessResetsCount(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.GetState() != StateClosed {
		t.Error("non-consecutive failures should not open the breaker")
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	if cb.GetState() != StateOpen {
		t.Fatal("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("breaker should allow a probe after the timeout")
	}
	if cb.GetState() != StateHalfOpen {
		t.Fatalf("state = %s, want HALF_OPEN", cb.GetState())
	}

	cb.RecordSuccess()
	if cb.GetState() != StateHalfOpen {
		t.Error("one success should not close the breaker yet")
	}
	cb.RecordSuccess()
	if cb.GetState() != StateClosed {
		t.Error("breaker should close after the success threshold")
	}
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	cb := newTestBreaker(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	time.Sleep(20 * time.Millisecond)
	if !cb.Allow() {
		t.Fatal("probe should be allowed")
	}

	cb.RecordFailure()
	if cb.GetState() != StateOpen {
		t.Error("failed probe should reopen the breaker")
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	for i := 0; i < 3; i++ {
		cb.RecordFailure()
	}
	cb.Reset()

	if cb.GetState() != StateClosed {
		t.Error("reset should force the breaker closed")
	}
	if !cb.Allow() {
		t.Error("reset breaker should allow requests")
	}
}

func TestStateString(t *testing.T) {
	if StateClosed.String() != "CLOSED" || StateOpen.String() != "OPEN" || StateHalfOpen.String() != "HALF_OPEN" {
		t.Error("state names changed")
	}
}
