package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/quotelab/memeframe/internal/config"
	"github.com/quotelab/memeframe/internal/frame"
	"github.com/quotelab/memeframe/internal/memetracker"
	"github.com/quotelab/memeframe/internal/storage"
)

// Execute implements the go-flags Commander interface for PeakCommand.
func (c *PeakCommand) Execute(args []string) error {
	if c.Cluster == 0 {
		return fmt.Errorf("--cluster is required for peak command")
	}

	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg)
}

// executeWithStore runs the peak search against a provided store (for testing).
func (c *PeakCommand) executeWithStore(store *storage.SQLiteStore, cfg *config.Config) error {
	ctx := context.Background()

	cl, err := store.GetCluster(ctx, c.Cluster, c.Filtered)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("cluster %d not found", c.Cluster)
		}
		return fmt.Errorf("load cluster %d: %w", c.Cluster, err)
	}

	precision := int64(cfg.Frame.PrecisionSeconds)
	if c.Precision > 0 {
		precision = c.Precision
	}

	merged := cl.MergedTimeline()
	peak, err := frame.FindPeakWindow(merged, precision)
	if err != nil {
		return fmt.Errorf("find peak of cluster %d: %w", c.Cluster, err)
	}

	count := 0
	for _, ts := range merged.Times() {
		if ts >= peak && ts < peak+memetracker.Day {
			count++
		}
	}

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"cluster":     c.Cluster,
			"filtered":    c.Filtered,
			"peak_start":  peak,
			"peak_end":    peak + memetracker.Day,
			"occurrences": count,
			"precision":   precision,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Cluster %d peak day\n", c.Cluster)
	fmt.Printf("  Start:       %s (%d)\n", formatUTC(peak), peak)
	fmt.Printf("  End:         %s (%d)\n", formatUTC(peak+memetracker.Day), peak+memetracker.Day)
	fmt.Printf("  Occurrences: %s\n", formatNumber(int64(count)))
	return nil
}
