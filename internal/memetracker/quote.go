package memetracker

// Quote is a single memetic phrase with the timeline of its observed
// occurrences. NURLs counts the distinct sources that cited it and
// TotFreq the total number of citations.
type Quote struct {
	ID      int64
	Text    string
	NURLs   int
	TotFreq int

	timeline *Timeline
}

// NewQuote returns a quote with an empty timeline and zero counts.
func NewQuote(id int64, text string) *Quote {
	return &Quote{
		ID:       id,
		Text:     text,
		timeline: NewTimeline(nil),
	}
}

// NewQuoteFromTimes builds a quote whose counts are derived from the
// given occurrence times: NURLs is the number of distinct timestamps
// and TotFreq the total occurrence count.
func NewQuoteFromTimes(id int64, text string, times []int64) *Quote {
	q := &Quote{
		ID:       id,
		Text:     text,
		TotFreq:  len(times),
		timeline: NewTimeline(times),
	}
	distinct := make(map[int64]struct{}, len(times))
	for _, ts := range times {
		distinct[ts] = struct{}{}
	}
	q.NURLs = len(distinct)
	return q
}

// AddOccurrences records one source citing the quote n times at ts.
// NURLs increments by one, TotFreq by n.
func (q *Quote) AddOccurrences(ts int64, n int) {
	q.timeline.Add(ts, n)
	q.NURLs++
	q.TotFreq += n
}

// Timeline returns the quote's occurrence timeline.
func (q *Quote) Timeline() *Timeline { return q.timeline }

// Attrs returns the derived statistics of the quote's timeline.
func (q *Quote) Attrs() (*Attrs, error) { return q.timeline.Attrs() }
