package model

import (
	"fmt"
	"time"
)

// Window is a daily interval of wall-clock time. Start > End means the
// window wraps past midnight. Granularity is one minute.
type Window struct {
	Start int // minutes since midnight
	End   int
}

// ParseHM parses "HH:MM" into minutes since midnight.
func ParseHM(hm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", hm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time of day %q", hm)
	}
	return h*60 + m, nil
}

// MustWindow builds a Window from two "HH:MM" strings, panicking on bad
// input. Only used for the fixed compile-time windows below.
func MustWindow(start, end string) Window {
	s, err := ParseHM(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseHM(end)
	if err != nil {
		panic(err)
	}
	return Window{Start: s, End: e}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Contains reports membership with both endpoints included.
func (w Window) Contains(t time.Time) bool {
	now := minuteOfDay(t)
	if w.Start <= w.End {
		return w.Start <= now && now <= w.End
	}
	// wraps midnight
	return now >= w.Start || now <= w.End
}

// ContainsHalfOpen reports membership in [Start, End). A degenerate window
// with Start == End never matches, which is how "silent mode configured but
// window collapsed" reads as "never silent".
func (w Window) ContainsHalfOpen(t time.Time) bool {
	now := minuteOfDay(t)
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return w.Start <= now && now < w.End
	}
	return now >= w.Start || now < w.End
}

// The two fixed peak windows, local time. The first one wraps midnight.
var PeakWindows = []Window{
	MustWindow("20:30", "02:30"),
	MustWindow("05:30", "06:30"),
}

// IsPeakTime reports whether t falls in any peak window.
func IsPeakTime(t time.Time) bool {
	for _, w := range PeakWindows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// PollPlan resolves the check mode and polling cadence for one scheduled
// tick. The short peak cadence applies only when peak mode is enabled and t
// falls inside a peak window; every other tick runs at the base cadence.
// Callers read the clock and pass it in, so scheduling decisions stay
// deterministic under test.
func (c *Config) PollPlan(t time.Time, peakEnabled bool) (string, time.Duration) {
	if peakEnabled && IsPeakTime(t) {
		return CheckModePeak, time.Duration(c.PeakSeconds) * time.Second
	}
	return CheckModeNormal, time.Duration(c.BaseSeconds) * time.Second
}
