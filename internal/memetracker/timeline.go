// Package memetracker holds the entity model for MemeTracker quote
// cluster data: occurrence timelines, quotes, and clusters, with their
// derived activity statistics.
package memetracker

import (
	"errors"
	"math"
)

// Day is one day in seconds. All timestamps in this package are Unix
// seconds, UTC.
const Day = 86400

// ErrEmptyTimeline is returned when derived attributes are requested
// for a timeline with no occurrences.
var ErrEmptyTimeline = errors.New("empty timeline")

// Timeline is a multiset of occurrence timestamps. The same timestamp
// may appear multiple times, once per occurrence.
type Timeline struct {
	times []int64
	attrs *Attrs
}

// Attrs holds the statistics derived from a timeline. They are
// computed once per timeline and cached until the timeline changes.
type Attrs struct {
	Start    int64   // earliest occurrence
	End      int64   // latest occurrence
	SpanSecs int64   // End - Start
	SpanDays float64 // SpanSecs / Day

	// MaxActivity is the occurrence count of the densest bin of the
	// day-wide activity histogram; MaxActivityTime is the center
	// timestamp of that bin.
	MaxActivity     int
	MaxActivityTime int64
}

// NewTimeline wraps times in a Timeline. The timeline takes ownership
// of the slice; callers must not modify it afterwards.
func NewTimeline(times []int64) *Timeline {
	return &Timeline{times: times}
}

// Add appends n occurrences at ts and drops any cached attributes.
func (t *Timeline) Add(ts int64, n int) {
	for i := 0; i < n; i++ {
		t.times = append(t.times, ts)
	}
	t.attrs = nil
}

// Len returns the total number of occurrences.
func (t *Timeline) Len() int { return len(t.times) }

// Times returns the underlying occurrence slice as a read-only view.
func (t *Timeline) Times() []int64 { return t.times }

// Attrs computes the derived statistics, caching the result until the
// timeline is modified. Returns ErrEmptyTimeline when the timeline has
// no occurrences.
func (t *Timeline) Attrs() (*Attrs, error) {
	if t.attrs != nil {
		return t.attrs, nil
	}
	if len(t.times) == 0 {
		return nil, ErrEmptyTimeline
	}
	t.attrs = computeAttrs(t.times)
	return t.attrs, nil
}

// computeAttrs derives start/end/span and the activity peak. The
// histogram splits [start, end] into one bin per day of span (at least
// one bin, last bin right-inclusive); the peak time is the center of
// the fullest bin, with ties going to the earliest bin.
func computeAttrs(times []int64) *Attrs {
	start, end := times[0], times[0]
	for _, ts := range times[1:] {
		if ts < start {
			start = ts
		}
		if ts > end {
			end = ts
		}
	}

	span := end - start
	a := &Attrs{
		Start:    start,
		End:      end,
		SpanSecs: span,
		SpanDays: float64(span) / Day,
	}

	if span == 0 {
		a.MaxActivity = len(times)
		a.MaxActivityTime = start
		return a
	}

	bins := int(math.Round(float64(span) / Day))
	if bins < 1 {
		bins = 1
	}
	width := float64(span) / float64(bins)

	counts := make([]int, bins)
	for _, ts := range times {
		idx := int(float64(ts-start) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}

	left := float64(start) + float64(best)*width
	right := left + width
	a.MaxActivity = counts[best]
	a.MaxActivityTime = int64(math.Floor((left + right) / 2))

	return a
}
