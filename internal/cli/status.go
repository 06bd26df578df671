package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quotelab/memeframe/internal/config"
	"github.com/quotelab/memeframe/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string             `json:"version"`
	DatabasePath      string             `json:"database_path"`
	DatabaseSizeBytes int64              `json:"database_size_bytes"`
	RawClusters       int                `json:"raw_clusters"`
	FilteredClusters  int                `json:"filtered_clusters"`
	RawQuotes         int                `json:"raw_quotes"`
	FilteredQuotes    int                `json:"filtered_quotes"`
	TotalOccurrences  int                `json:"total_occurrences"`
	OldestOccurrence  string             `json:"oldest_occurrence,omitempty"`
	NewestOccurrence  string             `json:"newest_occurrence,omitempty"`
	FilterMinTokens   int                `json:"filter_min_tokens"`
	FilterMaxDays     float64            `json:"filter_max_days"`
	FilterLanguage    string             `json:"filter_language"`
	TopClusters       []clusterCountJSON `json:"top_clusters"`
}

type clusterCountJSON struct {
	ID      int64  `json:"id"`
	Root    string `json:"root"`
	TotFreq int    `json:"tot_freq"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	store, db, cfg, err := openStore(c.globals)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store, db, cfg)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(store *storage.SQLiteStore, db *sql.DB, cfg *config.Config) error {
	ctx := context.Background()

	stats, err := store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, _ := resolveDBPath(c.globals, cfg)
	dbSize := getDatabaseSize(db, dbPath)

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, cfg, dbPath, dbSize)
	}
	return c.printStatusHuman(stats, cfg, dbPath, dbSize)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, cfg *config.Config, dbPath string, dbSize int64) error {
	fmt.Println("Memeframe Status")
	fmt.Println("================")
	fmt.Printf("Version:      %s\n", c.version)
	fmt.Printf("Database:     %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Clusters:     %s raw / %s filtered\n", formatNumber(int64(stats.RawClusters)), formatNumber(int64(stats.FilteredClusters)))
	fmt.Printf("Quotes:       %s raw / %s filtered\n", formatNumber(int64(stats.RawQuotes)), formatNumber(int64(stats.FilteredQuotes)))
	fmt.Printf("Occurrences:  %s\n", formatNumber(int64(stats.TotalOccurrences)))

	// Time range
	if stats.TotalOccurrences > 0 {
		fmt.Printf("Oldest:       %s\n", stats.OldestOccurrence.UTC().Format("2006-01-02"))
		fmt.Printf("Newest:       %s\n", stats.NewestOccurrence.UTC().Format("2006-01-02"))
	}

	fmt.Println()
	fmt.Printf("Filter:       min %d tokens, max %.0f days, language %q\n", cfg.Filter.MinTokens, cfg.Filter.MaxDays, cfg.Filter.Language)
	fmt.Printf("Frame:        %dd before / %dd after peak, %ds precision\n", cfg.Frame.SpanBeforeDays, cfg.Frame.SpanAfterDays, cfg.Frame.PrecisionSeconds)

	// Top clusters by citation count
	if len(stats.TopClusters) > 0 {
		fmt.Println()
		fmt.Println("Top Clusters:")
		for _, tc := range stats.TopClusters {
			fmt.Printf("  %8d  f=%-8d %s\n", tc.SID, tc.TotFreq, truncate(tc.Root, 50))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, cfg *config.Config, dbPath string, dbSize int64) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		RawClusters:       stats.RawClusters,
		FilteredClusters:  stats.FilteredClusters,
		RawQuotes:         stats.RawQuotes,
		FilteredQuotes:    stats.FilteredQuotes,
		TotalOccurrences:  stats.TotalOccurrences,
		FilterMinTokens:   cfg.Filter.MinTokens,
		FilterMaxDays:     cfg.Filter.MaxDays,
		FilterLanguage:    cfg.Filter.Language,
		TopClusters:       make([]clusterCountJSON, len(stats.TopClusters)),
	}

	if stats.TotalOccurrences > 0 {
		out.OldestOccurrence = stats.OldestOccurrence.UTC().Format(time.RFC3339)
		out.NewestOccurrence = stats.NewestOccurrence.UTC().Format(time.RFC3339)
	}

	for i, tc := range stats.TopClusters {
		out.TopClusters[i] = clusterCountJSON{ID: tc.SID, Root: tc.Root, TotFreq: tc.TotFreq}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
