package schedule

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slot is a bookable chunk of a free interval, exactly one lesson long.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the two ranges share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Subtract removes the portion of i covered by other. It returns zero, one or
// two sub-intervals: none when other fully covers i, two when other is
// strictly interior, one otherwise. A disjoint other leaves i unchanged.
func (i Interval) Subtract(other Interval) []Interval {
	if !i.Overlaps(other) {
		return []Interval{i}
	}

	parts := make([]Interval, 0, 2)
	if i.Start.Before(other.Start) {
		parts = append(parts, Interval{Start: i.Start, End: other.Start})
	}
	if other.End.Before(i.End) {
		parts = append(parts, Interval{Start: other.End, End: i.End})
	}
	return parts
}

// Chunk partitions the interval into consecutive non-overlapping windows of
// exactly duration, starting at Start. Chunking stops once the remaining span
// is shorter than duration. Every call builds the slice fresh, so the result
// is restartable.
func (i Interval) Chunk(duration time.Duration) []time.Time {
	if duration <= 0 {
		return nil
	}

	var starts []time.Time
	for cur := i.Start; !cur.Add(duration).After(i.End); cur = cur.Add(duration) {
		starts = append(starts, cur)
	}
	return starts
}

// Duration returns the span of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Free subtracts every busy interval from every work interval and returns the
// remaining pieces in ascending start order. Busy intervals that do not
// overlap a work interval have no effect on it.
func Free(work, busy []Interval) []Interval {
	var free []Interval
	for _, w := range work {
		pieces := []Interval{w}
		for _, b := range busy {
			next := make([]Interval, 0, len(pieces))
			for _, p := range pieces {
				next = append(next, p.Subtract(b)...)
			}
			pieces = next
		}
		free = append(free, pieces...)
	}

	sort.Slice(free, func(a, b int) bool {
		return free[a].Start.Before(free[b].Start)
	})

	return free
}

// Slots chunks every free interval by duration and returns the offered slots
// in ascending start order. Intervals shorter than duration contribute none.
func Slots(free []Interval, duration time.Duration) []Slot {
	var slots []Slot
	for _, f := range free {
		for _, start := range f.Chunk(duration) {
			slots = append(slots, Slot{Start: start, End: start.Add(duration)})
		}
	}

	sort.Slice(slots, func(a, b int) bool {
		return slots[a].Start.Before(slots[b].Start)
	})

	return slots
}
