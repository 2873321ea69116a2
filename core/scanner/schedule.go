package scanner

import (
	"slices"
	"time"
)

// NextRun returns the first whole minute strictly after now whose
// minute-of-hour is listed. Invalid minutes are ignored; with none left a
// pass runs at the top of every hour.
func NextRun(now time.Time, minutes []int) time.Time {
	valid := slices.DeleteFunc(slices.Clone(minutes), func(m int) bool { return m < 0 || m > 59 })
	if len(valid) == 0 {
		valid = []int{0}
	}
	slices.Sort(valid)

	next := now.Truncate(time.Minute).Add(time.Minute)
	for range 60 {
		if _, ok := slices.BinarySearch(valid, next.Minute()); ok {
			return next
		}
		next = next.Add(time.Minute)
	}
	return next
}
