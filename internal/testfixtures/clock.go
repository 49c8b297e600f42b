package testfixtures

import (
	"sync"
	"time"

	"github.com/example/kita-dienstplan/internal/calendar"
)

// Clock is a settable time source. It starts at ReferenceTime (Monday of
// 2024-W03, 09:30 UTC) unless told otherwise.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc is Now in the shape services take. A nil clock yields time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// SetWeekday places the clock on day of week, keeping the time of day and
// location of the current instant.
func (c *Clock) SetWeekday(week calendar.WeekID, day calendar.DayOfWeek) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := week.Date(day)
	hour, minute, sec := c.current.Clock()
	c.current = time.Date(d.Year, d.Month, d.Day, hour, minute, sec, c.current.Nanosecond(), c.current.Location())
	return c.current
}

// AdvanceWeeks moves the clock by whole calendar weeks.
func (c *Clock) AdvanceWeeks(n int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.AddDate(0, 0, 7*n)
	return c.current
}

// Today is the civil date of the current instant in loc.
func (c *Clock) Today(loc *time.Location) calendar.Date {
	return calendar.Today(c.Now(), loc)
}
