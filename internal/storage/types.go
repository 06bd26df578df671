package storage

import "time"

// Stats summarizes the contents of the store. Occurrence totals and
// top clusters cover the raw side only, so they describe the dataset
// as loaded.
type Stats struct {
	RawClusters      int
	FilteredClusters int
	RawQuotes        int
	FilteredQuotes   int
	TotalOccurrences int
	OldestOccurrence time.Time
	NewestOccurrence time.Time
	TopClusters      []ClusterCount
}

// ClusterCount names a cluster and its total citation count.
type ClusterCount struct {
	SID     int64
	Root    string
	TotFreq int
}
