package viewport

import "time"

// debouncer drops events that arrive within interval of the last accepted one.
type debouncer struct {
	interval time.Duration
	last     time.Time
}

func newDebouncer(interval time.Duration) *debouncer {
	if interval < 0 {
		interval = 0
	}
	return &debouncer{interval: interval}
}

// allow reports whether an event at now should be processed, and if so
// makes now the reference point for the next call.
func (d *debouncer) allow(now time.Time) bool {
	if d.interval > 0 && !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}
