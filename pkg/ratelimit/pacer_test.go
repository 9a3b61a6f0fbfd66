package ratelimit

import (
	"testing"
	"time"
)

func TestIntervalPacerEnforcesFloor(t *testing.T) {
	p := NewIntervalPacer(50 * time.Millisecond)

	start := time.Now()
	p.Wait() // first call never blocks
	p.Wait()
	elapsed := time.Since(start)

	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected at least 50ms between operations, got %v", elapsed)
	}
}

func TestIntervalPacerZeroIntervalDoesNotBlock(t *testing.T) {
	p := NewIntervalPacer(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		p.Wait()
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected no pacing with zero interval, got %v", elapsed)
	}
}

func TestIntervalPacerReset(t *testing.T) {
	p := NewIntervalPacer(time.Hour)
	p.Wait()
	p.Reset()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait blocked after Reset")
	}
}
