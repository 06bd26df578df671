// Package frame restricts timelines, quotes, and clusters to a time
// window, and locates the day-long window of peak activity.
package frame

import (
	"fmt"
	"math"
	"sort"

	"github.com/quotelab/memeframe/internal/memetracker"
)

// DefaultPrecision is the candidate grid step, in seconds, used by
// FindPeakWindow when none is given.
const DefaultPrecision int64 = 1800

// FindPeakWindow returns the start of the day-long window holding the
// most occurrences of tl. Candidate starts are laid out on a grid of
// the given precision, in seconds, covering one day on each side of
// the timeline's activity peak. Occurrences are counted in
// [start, start+Day), and the earliest best window wins. A precision
// <= 0 selects DefaultPrecision.
func FindPeakWindow(tl *memetracker.Timeline, precision int64) (int64, error) {
	if precision <= 0 {
		precision = DefaultPrecision
	}

	attrs, err := tl.Attrs()
	if err != nil {
		return 0, fmt.Errorf("find peak window: %w", err)
	}

	times := append([]int64(nil), tl.Times()...)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	n := int(math.Ceil(float64(2*memetracker.Day) / float64(precision)))
	base := attrs.MaxActivityTime - memetracker.Day

	bestStart, bestCount := base, -1
	for i := 0; i < n; i++ {
		s := base + int64(i)*precision
		lo := sort.Search(len(times), func(k int) bool { return times[k] >= s })
		hi := sort.Search(len(times), func(k int) bool { return times[k] >= s+memetracker.Day })
		if c := hi - lo; c > bestCount {
			bestStart, bestCount = s, c
		}
	}

	return bestStart, nil
}
