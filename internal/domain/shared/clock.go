package shared

import "time"

// InLocation wraps a clock so it reads in loc. Calendar dates taken from it
// with Year/Month/Day are then the dates of that timezone.
func InLocation(clock func() time.Time, loc *time.Location) func() time.Time {
	if loc == nil {
		return clock
	}
	return func() time.Time {
		return clock().In(loc)
	}
}
