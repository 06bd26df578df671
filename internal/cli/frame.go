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

// Execute implements the go-flags Commander interface for FrameCommand.
func (c *FrameCommand) Execute(args []string) error {
	if c.Cluster == 0 {
		return fmt.Errorf("--cluster is required for frame command")
	}
	if (c.Start == "") != (c.End == "") {
		return fmt.Errorf("--start and --end must be given together")
	}

	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, cfg)
}

// executeWithStore runs the framing against a provided store (for testing).
func (c *FrameCommand) executeWithStore(store *storage.SQLiteStore, cfg *config.Config) error {
	ctx := context.Background()

	cl, err := store.GetCluster(ctx, c.Cluster, c.Filtered)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("cluster %d not found", c.Cluster)
		}
		return fmt.Errorf("load cluster %d: %w", c.Cluster, err)
	}

	var start, end int64
	if c.Start != "" {
		start, err = parseTimeArg(c.Start)
		if err != nil {
			return fmt.Errorf("invalid --start value %q: %w", c.Start, err)
		}
		end, err = parseTimeArg(c.End)
		if err != nil {
			return fmt.Errorf("invalid --end value %q: %w", c.End, err)
		}
		if end < start {
			return fmt.Errorf("--end must not be before --start")
		}
	} else {
		spanBefore := float64(cfg.Frame.SpanBeforeDays)
		if c.SpanBefore != nil {
			spanBefore = *c.SpanBefore
		}
		spanAfter := float64(cfg.Frame.SpanAfterDays)
		if c.SpanAfter != nil {
			spanAfter = *c.SpanAfter
		}

		peak, err := frame.FindPeakWindow(cl.MergedTimeline(), int64(cfg.Frame.PrecisionSeconds))
		if err != nil {
			return fmt.Errorf("find peak of cluster %d: %w", c.Cluster, err)
		}

		start = peak - int64(spanBefore*float64(memetracker.Day))
		end = peak + memetracker.Day + int64(spanAfter*float64(memetracker.Day))
	}

	framed := frame.Cluster(cl, start, end)

	if c.globals != nil && c.globals.JSON {
		return c.printJSON(framed, start, end)
	}
	return c.printHuman(framed, start, end)
}

func (c *FrameCommand) printHuman(cl *memetracker.Cluster, start, end int64) error {
	side := "raw"
	if c.Filtered {
		side = "filtered"
	}

	if cl == nil {
		fmt.Printf("Cluster %d (%s): nothing in window %s .. %s\n", c.Cluster, side, formatUTC(start), formatUTC(end))
		return nil
	}

	fmt.Printf("Cluster %d (%s)\n", cl.ID, side)
	fmt.Printf("  Window: %s .. %s\n", formatUTC(start), formatUTC(end))
	fmt.Printf("  Root:   %s\n", truncate(cl.Root, 70))
	fmt.Printf("  Quotes: %d\n", cl.NQuotes)
	fmt.Printf("  Freq:   %d\n", cl.TotFreq)
	fmt.Println()

	for _, q := range sortedQuotes(cl) {
		fmt.Printf("  %8d  f=%-6d %s\n", q.ID, q.TotFreq, truncate(q.Text, 60))
	}
	return nil
}

type frameQuoteJSON struct {
	ID      int64  `json:"id"`
	Text    string `json:"text"`
	NURLs   int    `json:"n_urls"`
	TotFreq int    `json:"tot_freq"`
}

type frameJSON struct {
	Cluster     int64            `json:"cluster"`
	Filtered    bool             `json:"filtered"`
	WindowStart int64            `json:"window_start"`
	WindowEnd   int64            `json:"window_end"`
	Empty       bool             `json:"empty"`
	Root        string           `json:"root,omitempty"`
	NQuotes     int              `json:"n_quotes,omitempty"`
	TotFreq     int              `json:"tot_freq,omitempty"`
	Quotes      []frameQuoteJSON `json:"quotes,omitempty"`
}

func (c *FrameCommand) printJSON(cl *memetracker.Cluster, start, end int64) error {
	out := frameJSON{
		Cluster:     c.Cluster,
		Filtered:    c.Filtered,
		WindowStart: start,
		WindowEnd:   end,
		Empty:       cl == nil,
	}

	if cl != nil {
		out.Root = cl.Root
		out.NQuotes = cl.NQuotes
		out.TotFreq = cl.TotFreq
		for _, q := range sortedQuotes(cl) {
			out.Quotes = append(out.Quotes, frameQuoteJSON{
				ID:      q.ID,
				Text:    q.Text,
				NURLs:   q.NURLs,
				TotFreq: q.TotFreq,
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
