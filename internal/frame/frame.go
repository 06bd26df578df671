package frame

import (
	"fmt"

	"github.com/quotelab/memeframe/internal/memetracker"
)

// DefaultSpan is the slack, in seconds, added on each side of the peak
// day by ClusterAroundPeak when no span is given.
const DefaultSpan int64 = 2 * memetracker.Day

// Timeline returns a new timeline holding the occurrences of tl that
// fall within [start, end], both ends inclusive. The input timeline is
// left untouched; the result may be empty.
func Timeline(tl *memetracker.Timeline, start, end int64) *memetracker.Timeline {
	var framed []int64
	for _, ts := range tl.Times() {
		if ts >= start && ts <= end {
			framed = append(framed, ts)
		}
	}
	return memetracker.NewTimeline(framed)
}

// Quote returns a copy of q restricted to [start, end], with NURLs and
// TotFreq recounted from the surviving occurrences. Returns nil when
// no occurrence falls within the window.
func Quote(q *memetracker.Quote, start, end int64) *memetracker.Quote {
	framed := Timeline(q.Timeline(), start, end)
	if framed.Len() == 0 {
		return nil
	}
	return memetracker.NewQuoteFromTimes(q.ID, q.Text, framed.Times())
}

// Cluster returns a copy of cl restricted to [start, end]. A quote is
// considered when its timeline begins inside the window or stretches
// over the window start; considered quotes are framed individually and
// dropped when nothing survives. Quotes without occurrences are
// skipped. Returns nil when no quote survives.
func Cluster(cl *memetracker.Cluster, start, end int64) *memetracker.Cluster {
	framed := memetracker.NewCluster(cl.ID, cl.Root)
	for _, q := range cl.Quotes {
		attrs, err := q.Attrs()
		if err != nil {
			continue
		}
		starts := start <= attrs.Start && attrs.Start <= end
		covers := attrs.Start <= start && start <= attrs.End
		if !starts && !covers {
			continue
		}
		if fq := Quote(q, start, end); fq != nil {
			framed.AddQuote(fq)
		}
	}
	if len(framed.Quotes) == 0 {
		return nil
	}
	framed.RecountAggregates()
	return framed
}

// ClusterAroundPeak frames cl around its merged activity peak: the
// window runs from spanBefore seconds before the peak window start to
// spanAfter seconds after its end. Spans < 0 select DefaultSpan; the
// precision is passed through to FindPeakWindow. Returns an error when
// the cluster has no occurrences at all.
func ClusterAroundPeak(cl *memetracker.Cluster, spanBefore, spanAfter, precision int64) (*memetracker.Cluster, error) {
	if spanBefore < 0 {
		spanBefore = DefaultSpan
	}
	if spanAfter < 0 {
		spanAfter = DefaultSpan
	}

	peak, err := FindPeakWindow(cl.MergedTimeline(), precision)
	if err != nil {
		return nil, fmt.Errorf("frame cluster %d: %w", cl.ID, err)
	}

	return Cluster(cl, peak-spanBefore, peak+memetracker.Day+spanAfter), nil
}
