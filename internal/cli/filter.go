package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quotelab/memeframe/internal/config"
	"github.com/quotelab/memeframe/internal/filter"
	"github.com/quotelab/memeframe/internal/lang"
	"github.com/quotelab/memeframe/internal/logging"
	"github.com/quotelab/memeframe/internal/memetracker"
	"github.com/quotelab/memeframe/internal/storage"
)

// filterBatchSize bounds how many clusters are held in memory at once
// while filtering.
const filterBatchSize = 500

// Execute implements the go-flags Commander interface for FilterCommand.
func (c *FilterCommand) Execute(args []string) error {
	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg)
}

// executeWithStore runs the filter pass against a provided store (for testing).
func (c *FilterCommand) executeWithStore(store *storage.SQLiteStore, cfg *config.Config) error {
	ctx := context.Background()

	done, err := store.HasFiltered(ctx)
	if err != nil {
		return fmt.Errorf("check filtered side: %w", err)
	}
	if done {
		return fmt.Errorf("filtered clusters already exist; run purge before filtering again")
	}

	opts := filter.Options{
		MinTokens: cfg.Filter.MinTokens,
		MaxDays:   cfg.Filter.MaxDays,
		Language:  cfg.Filter.Language,
	}
	if c.MinTokens > 0 {
		opts.MinTokens = c.MinTokens
	}
	if c.MaxDays > 0 {
		opts.MaxDays = c.MaxDays
	}
	if c.Language != "" {
		opts.Language = c.Language
	}

	workers := cfg.Workers
	if c.Workers > 0 {
		workers = c.Workers
	}

	sids, err := store.ListClusterSIDs(ctx, false)
	if err != nil {
		return fmt.Errorf("list clusters: %w", err)
	}
	if len(sids) == 0 {
		return fmt.Errorf("no clusters loaded; run load first")
	}

	tok := c.tok
	if tok == nil {
		tok = lang.ProseTokenizer{}
	}
	det := c.det
	if det == nil {
		logging.Info("loading language models")
		det = lang.NewLinguaDetector()
	}

	eng := filter.New(tok, det, opts)

	start := time.Now()
	kept := 0

	for off := 0; off < len(sids); off += filterBatchSize {
		end := off + filterBatchSize
		if end > len(sids) {
			end = len(sids)
		}

		batch := make([]*memetracker.Cluster, 0, end-off)
		for _, sid := range sids[off:end] {
			cl, err := store.GetCluster(ctx, sid, false)
			if err != nil {
				return fmt.Errorf("load cluster %d: %w", sid, err)
			}
			batch = append(batch, cl)
		}

		filtered, err := eng.Batch(batch, workers)
		if err != nil {
			return fmt.Errorf("filter batch: %w", err)
		}

		for _, cl := range filtered {
			if err := store.SaveCluster(ctx, cl, true); err != nil {
				return fmt.Errorf("save filtered cluster %d: %w", cl.ID, err)
			}
			kept++
		}
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	logging.Info("filter pass complete", "clusters", len(sids), "kept", kept, "elapsed", elapsed)

	if c.globals != nil && c.globals.JSON {
		out := map[string]interface{}{
			"clusters":   len(sids),
			"kept":       kept,
			"dropped":    len(sids) - kept,
			"min_tokens": opts.MinTokens,
			"max_days":   opts.MaxDays,
			"language":   opts.Language,
			"elapsed":    elapsed.String(),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Filtered %s clusters in %s\n", formatNumber(int64(len(sids))), elapsed)
	fmt.Printf("  Kept:    %s\n", formatNumber(int64(kept)))
	fmt.Printf("  Dropped: %s\n", formatNumber(int64(len(sids)-kept)))
	return nil
}
