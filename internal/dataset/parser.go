// Package dataset parses MemeTracker phrase cluster files: a six line
// preamble followed by tab-indented cluster, quote, and occurrence
// records.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/quotelab/memeframe/internal/logging"
	"github.com/quotelab/memeframe/internal/memetracker"
)

// headerLines is the number of preamble lines before the first
// cluster record.
const headerLines = 6

// timeLayout is the timestamp format used by the dataset.
const timeLayout = "2006-01-02 15:04:05"

// ErrStop can be returned by a ParseClusters callback to end the parse
// early without reporting an error.
var ErrStop = errors.New("stop parsing")

// Stats counts what a parse run saw.
type Stats struct {
	Clusters    int
	Quotes      int
	Occurrences int
	Mismatches  int // entities whose declared counts disagree with their records
	Malformed   int // lines skipped as unparseable
}

// ParseTimestamp parses a dataset timestamp such as
// "2008-08-01 00:00:02" as UTC Unix seconds.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.Unix(), nil
}

// ParseClusters streams the clusters of a phrase cluster file, calling
// fn for each complete cluster. Cluster and quote records carry
// declared counts; the counts rebuilt from the occurrence lines win,
// and disagreements are tallied in Stats.Mismatches. Malformed lines
// are counted and skipped. Returning ErrStop from fn ends the parse
// early with a nil error; any other error aborts it.
func ParseClusters(r io.Reader, fn func(*memetracker.Cluster) error) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var (
		cluster   *memetracker.Cluster
		clQuotes  int // declared quote count
		clTotFreq int // declared total frequency
		quote     *memetracker.Quote
		qTotFreq  int // declared total frequency
		qNURLs    int // declared URL count
	)

	finishQuote := func() {
		if quote == nil {
			return
		}
		if quote.TotFreq != qTotFreq || quote.NURLs != qNURLs {
			stats.Mismatches++
			logging.Debug("quote counts disagree",
				"quote", quote.ID,
				"declared_freq", qTotFreq, "parsed_freq", quote.TotFreq,
				"declared_urls", qNURLs, "parsed_urls", quote.NURLs)
		}
		cluster.AddQuote(quote)
		stats.Quotes++
		quote = nil
	}

	finishCluster := func() error {
		if cluster == nil {
			return nil
		}
		finishQuote()
		cluster.RecountAggregates()
		if cluster.NQuotes != clQuotes || cluster.TotFreq != clTotFreq {
			stats.Mismatches++
			logging.Debug("cluster counts disagree",
				"cluster", cluster.ID,
				"declared_quotes", clQuotes, "parsed_quotes", cluster.NQuotes,
				"declared_freq", clTotFreq, "parsed_freq", cluster.TotFreq)
		}
		stats.Clusters++
		err := fn(cluster)
		cluster = nil
		return err
	}

	line := 0
	for scanner.Scan() {
		line++
		if line <= headerLines {
			continue
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		switch {
		case strings.HasPrefix(text, "\t\t"): // occurrence record
			if quote == nil || len(fields) < 6 {
				stats.Malformed++
				continue
			}
			ts, err := ParseTimestamp(fields[2])
			if err != nil {
				stats.Malformed++
				continue
			}
			freq, err := strconv.Atoi(fields[3])
			if err != nil || freq < 0 {
				stats.Malformed++
				continue
			}
			quote.AddOccurrences(ts, freq)
			stats.Occurrences += freq

		case strings.HasPrefix(text, "\t"): // quote record
			if cluster == nil || len(fields) < 5 {
				stats.Malformed++
				continue
			}
			totFreq, err1 := strconv.Atoi(fields[1])
			nURLs, err2 := strconv.Atoi(fields[2])
			id, err3 := strconv.ParseInt(fields[4], 10, 64)
			if err1 != nil || err2 != nil || err3 != nil {
				stats.Malformed++
				continue
			}
			finishQuote()
			quote = memetracker.NewQuote(id, fields[3])
			qTotFreq, qNURLs = totFreq, nURLs

		default: // cluster record
			if len(fields) < 4 {
				stats.Malformed++
				continue
			}
			nQuotes, err1 := strconv.Atoi(fields[0])
			totFreq, err2 := strconv.Atoi(fields[1])
			id, err3 := strconv.ParseInt(fields[3], 10, 64)
			if err1 != nil || err2 != nil || err3 != nil {
				stats.Malformed++
				continue
			}
			if err := finishCluster(); err != nil {
				if errors.Is(err, ErrStop) {
					return stats, nil
				}
				return stats, err
			}
			cluster = memetracker.NewCluster(id, fields[2])
			clQuotes, clTotFreq = nQuotes, totFreq
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read dataset: %w", err)
	}

	if err := finishCluster(); err != nil && !errors.Is(err, ErrStop) {
		return stats, err
	}
	return stats, nil
}

// LoadClusters reads every cluster of the file into memory, keyed by
// cluster ID.
func LoadClusters(r io.Reader) (map[int64]*memetracker.Cluster, Stats, error) {
	clusters := make(map[int64]*memetracker.Cluster)
	stats, err := ParseClusters(r, func(cl *memetracker.Cluster) error {
		clusters[cl.ID] = cl
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	return clusters, stats, nil
}
