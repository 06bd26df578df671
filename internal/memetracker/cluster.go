package memetracker

// Cluster groups the quotes that are variants of one root phrase.
// NQuotes and TotFreq are aggregates over the member quotes; after
// mutating Quotes call RecountAggregates to bring them back in step.
type Cluster struct {
	ID      int64
	Root    string
	NQuotes int
	TotFreq int

	Quotes map[int64]*Quote
}

// NewCluster returns an empty cluster for the given root phrase.
func NewCluster(id int64, root string) *Cluster {
	return &Cluster{
		ID:     id,
		Root:   root,
		Quotes: make(map[int64]*Quote),
	}
}

// AddQuote adds q to the cluster, replacing any quote with the same ID.
func (c *Cluster) AddQuote(q *Quote) {
	c.Quotes[q.ID] = q
}

// MergedTimeline returns a fresh timeline holding the occurrences of
// every member quote. It is rebuilt on each call so it never goes
// stale against quote mutations.
func (c *Cluster) MergedTimeline() *Timeline {
	n := 0
	for _, q := range c.Quotes {
		n += q.Timeline().Len()
	}
	times := make([]int64, 0, n)
	for _, q := range c.Quotes {
		times = append(times, q.Timeline().Times()...)
	}
	return NewTimeline(times)
}

// RecountAggregates recomputes NQuotes and TotFreq from the member
// quotes.
func (c *Cluster) RecountAggregates() {
	c.NQuotes = len(c.Quotes)
	tot := 0
	for _, q := range c.Quotes {
		tot += q.TotFreq
	}
	c.TotFreq = tot
}
