package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quotelab/memeframe/internal/dataset"
	"github.com/quotelab/memeframe/internal/logging"
	"github.com/quotelab/memeframe/internal/memetracker"
	"github.com/quotelab/memeframe/internal/storage"
)

// Execute implements the go-flags Commander interface for LoadCommand.
func (c *LoadCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required for load command")
	}

	store, db, _, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs the load against a provided store (for testing).
func (c *LoadCommand) executeWithStore(store *storage.SQLiteStore) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	start := time.Now()
	loaded := 0

	stats, err := dataset.ParseClusters(f, func(cl *memetracker.Cluster) error {
		if err := store.SaveCluster(ctx, cl, false); err != nil {
			return fmt.Errorf("save cluster %d: %w", cl.ID, err)
		}
		loaded++
		if c.Limit > 0 && loaded >= c.Limit {
			return dataset.ErrStop
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("parse dataset: %w", err)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	logging.Info("dataset loaded", "file", c.File, "clusters", loaded, "elapsed", elapsed)

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"file":        c.File,
			"loaded":      loaded,
			"quotes":      stats.Quotes,
			"occurrences": stats.Occurrences,
			"mismatches":  stats.Mismatches,
			"malformed":   stats.Malformed,
			"elapsed":     elapsed.String(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Loaded %s clusters from %s in %s\n", formatNumber(int64(loaded)), c.File, elapsed)
	fmt.Printf("  Quotes:      %s\n", formatNumber(int64(stats.Quotes)))
	fmt.Printf("  Occurrences: %s\n", formatNumber(int64(stats.Occurrences)))
	if stats.Mismatches > 0 {
		fmt.Printf("  Mismatches:  %s\n", formatNumber(int64(stats.Mismatches)))
	}
	if stats.Malformed > 0 {
		fmt.Printf("  Malformed:   %s\n", formatNumber(int64(stats.Malformed)))
	}
	return nil
}
