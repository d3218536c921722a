package pad

import "time"

// Clock reads a free-running monotonic clock as elapsed time since boot
type Clock interface {
	Now() time.Duration
}

// SystemClock measures from the moment it was created
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now uses the monotonic reading carried by time.Time
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}
