package limits

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckAndIncrementAnonymous(t *testing.T) {
	c := NewCounter(1, 5, false)
	c.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	first := c.CheckAndIncrement("anon:abc", false)
	if first.Count != 1 || first.Limit != 1 {
		t.Errorf("first = %+v, want {1 1}", first)
	}
	if first.Exceeded() {
		t.Error("first request exceeded, want allowed")
	}

	second := c.CheckAndIncrement("anon:abc", false)
	if second.Count != 2 {
		t.Errorf("second count = %d, want 2", second.Count)
	}
	if !second.Exceeded() {
		t.Error("second request allowed, want exceeded")
	}
}

func TestCheckAndIncrementAuthenticatedLimit(t *testing.T) {
	c := NewCounter(1, 5, false)
	c.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	var last Usage
	for range 5 {
		last = c.CheckAndIncrement("user:dev@example.com", true)
	}
	if last.Count != 5 || last.Limit != 5 {
		t.Errorf("fifth = %+v, want {5 5}", last)
	}
	if last.Exceeded() {
		t.Error("fifth request exceeded, want allowed")
	}

	sixth := c.CheckAndIncrement("user:dev@example.com", true)
	if !sixth.Exceeded() {
		t.Error("sixth request allowed, want exceeded")
	}
}

func TestDayRollResetsCount(t *testing.T) {
	c := NewCounter(1, 5, false)

	c.now = fixedClock(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))
	c.CheckAndIncrement("anon:abc", false)
	over := c.CheckAndIncrement("anon:abc", false)
	if !over.Exceeded() {
		t.Fatal("expected limit hit before midnight")
	}

	c.now = fixedClock(time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC))
	fresh := c.CheckAndIncrement("anon:abc", false)
	if fresh.Count != 1 {
		t.Errorf("post-midnight count = %d, want 1", fresh.Count)
	}
	if fresh.Exceeded() {
		t.Error("post-midnight request exceeded, want allowed")
	}
}

func TestIdentifiersCountSeparately(t *testing.T) {
	c := NewCounter(1, 5, false)
	c.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	c.CheckAndIncrement("anon:abc", false)
	other := c.CheckAndIncrement("anon:def", false)
	if other.Count != 1 {
		t.Errorf("separate identifier count = %d, want 1", other.Count)
	}
}

func TestBypassSkipsCounting(t *testing.T) {
	c := NewCounter(1, 5, true)

	for range 10 {
		usage := c.CheckAndIncrement("anon:abc", false)
		if usage.Count != 0 {
			t.Fatalf("bypass count = %d, want 0", usage.Count)
		}
		if usage.Exceeded() {
			t.Fatal("bypass exceeded, want allowed")
		}
	}

	if len(c.entries) != 0 {
		t.Errorf("bypass mutated entries: %d, want 0", len(c.entries))
	}
}

func TestConcurrentIncrements(t *testing.T) {
	c := NewCounter(1, 100, false)
	c.now = fixedClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.CheckAndIncrement("user:dev@example.com", true)
		}()
	}
	wg.Wait()

	final := c.CheckAndIncrement("user:dev@example.com", true)
	if final.Count != 51 {
		t.Errorf("final count = %d, want 51", final.Count)
	}
}
