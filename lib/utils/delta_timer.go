package utils

import "time"

// DeltaTimer measures the time between successive calls to Next and keeps a
// running total in Elapsed.
type DeltaTimer struct {
	time.Time
	Elapsed time.Duration
}

func (d *DeltaTimer) Next() time.Duration {
	// acquire timestamp exactly once to ensure we're not accumulating error
	now := time.Now()

	defer d.Set(now)
	if d.IsZero() {
		return 0
	}
	dt := now.Sub(d.Time)
	d.Elapsed += dt
	return dt
}

func (d *DeltaTimer) Set(t time.Time) {
	d.Time = t
}
