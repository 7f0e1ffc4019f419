// Package limits implements the daily usage limiter and the limit-event
// domain backing the lead-analytics table.
package limits

import (
	"sync"
	"time"
)

// Usage reports the post-increment quota state for one identifier.
// Checking usage is not separable from consuming it: every call increments,
// including the one that trips the limit.
type Usage struct {
	Count int `json:"count"`
	Limit int `json:"limit"`
}

// Exceeded reports whether the caller must reject the request.
func (u Usage) Exceeded() bool {
	return u.Count > u.Limit
}

// Counter couples quota check and consumption behind a single operation so
// the decision and the mutation happen together. Implementations must be
// safe for concurrent use; a multi-instance deployment requires replacing
// the in-memory implementation with an atomic external counter keyed by
// (identifier, calendar day).
type Counter interface {
	CheckAndIncrement(identifier string, authenticated bool) Usage
}

type entry struct {
	count int
	day   int
}

// MemoryCounter is a process-lifetime, mutex-guarded map of per-identifier
// daily counters. Entries for past days are overwritten on the identifier's
// next request rather than actively evicted.
type MemoryCounter struct {
	anonymousLimit int
	userLimit      int
	bypass         bool
	now            func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCounter creates a MemoryCounter with the given per-day limits.
// When bypass is set, every call reports a zero count and mutates nothing;
// this exists for controlled test environments only.
func NewCounter(anonymousLimit, userLimit int, bypass bool) *MemoryCounter {
	return &MemoryCounter{
		anonymousLimit: anonymousLimit,
		userLimit:      userLimit,
		bypass:         bypass,
		now:            time.Now,
		entries:        make(map[string]entry),
	}
}

// CheckAndIncrement records one use for the identifier and returns the
// resulting count alongside the applicable limit. The count resets when the
// stored calendar day differs from today.
func (c *MemoryCounter) CheckAndIncrement(identifier string, authenticated bool) Usage {
	limit := c.anonymousLimit
	if authenticated {
		limit = c.userLimit
	}

	if c.bypass {
		return Usage{Count: 0, Limit: limit}
	}

	today := dayStamp(c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[identifier]
	if !ok || e.day != today {
		e = entry{count: 1, day: today}
	} else {
		e.count++
	}
	c.entries[identifier] = e

	return Usage{Count: e.count, Limit: limit}
}

// dayStamp collapses a timestamp to a calendar-day integer so a new day
// resets the count.
func dayStamp(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
