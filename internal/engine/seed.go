package engine

import "time"

// SeedClock derives the coarse time-windowed seed that keeps successive
// page requests consistent with each other: every call within one window
// returns the same seed, so all pages of a browsing session order
// candidates identically, and the ordering rotates when the window does.
type SeedClock struct {
	window time.Duration
	now    func() time.Time
}

// NewSeedClock creates a SeedClock with the given window. A nil now falls
// back to time.Now.
func NewSeedClock(window time.Duration, now func() time.Time) *SeedClock {
	if now == nil {
		now = time.Now
	}
	return &SeedClock{window: window, now: now}
}

// Seed returns explicit unchanged when non-nil, which makes orderings
// reproducible for tests and deep links. Otherwise it returns the current
// window number, floor(nowMillis / windowMillis). No side effects, no
// blocking.
func (c *SeedClock) Seed(explicit *int64) int64 {
	if explicit != nil {
		return *explicit
	}
	return c.now().UnixMilli() / c.window.Milliseconds()
}

// Window returns the configured window length.
func (c *SeedClock) Window() time.Duration {
	return c.window
}
