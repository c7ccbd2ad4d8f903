package clock

import (
	"testing"
	"time"
)

func TestNewDefaultsZeroInterval(t *testing.T) {
	c := New(0)
	if c.interval != Interval {
		t.Errorf("interval = %v; want default %v", c.interval, Interval)
	}
}

func TestStopAndWaitPaces(t *testing.T) {
	c := New(10 * time.Millisecond)

	const rounds = 20
	start := time.Now()
	for i := 0; i < rounds; i++ {
		c.Start()
		c.StopAndWait()
	}
	elapsed := time.Since(start)

	want := time.Duration(rounds) * 10 * time.Millisecond
	// generous tolerance: scheduler jitter on a shared CI box, never undershoot.
	if elapsed < want {
		t.Errorf("elapsed %v over %d rounds; want at least %v", elapsed, rounds, want)
	}
	if elapsed > want*3 {
		t.Errorf("elapsed %v over %d rounds; want no more than %v", elapsed, rounds, want*3)
	}
}

func TestStopAndWaitDoesNotBlockWhenOverrun(t *testing.T) {
	c := New(5 * time.Millisecond)
	c.Start()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	c.StopAndWait()
	if since := time.Since(start); since > 5*time.Millisecond {
		t.Errorf("StopAndWait blocked for %v after the interval had already elapsed", since)
	}
}
