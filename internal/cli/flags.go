package cli

import (
	"database/sql"
	"io"

	"github.com/quotelab/memeframe/internal/filter"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	DBPath  string `long:"db-path" description:"Path to SQLite database file (overrides config)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable debug logging"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// LoadCommand — parse a MemeTracker dataset file into the database.
type LoadCommand struct {
	File  string `long:"file" description:"Path to MemeTracker dataset file (required)"`
	Limit int    `long:"limit" description:"Stop after this many clusters (0 = no limit)" default:"0"`

	globals *GlobalFlags
	version string
}

// FilterCommand — apply quality filtering to every loaded cluster.
type FilterCommand struct {
	MinTokens int     `long:"min-tokens" description:"Minimum tokens per quote (overrides config)"`
	MaxDays   float64 `long:"max-days" description:"Maximum cluster span in days (overrides config)"`
	Language  string  `long:"language" description:"Required ISO 639-1 language code (overrides config)"`
	Workers   int     `long:"workers" description:"Worker count, 0 = all CPUs (overrides config)"`

	globals *GlobalFlags
	version string

	// injectable for testing; nil means the real prose/lingua implementations
	tok filter.Tokenizer
	det filter.Detector
}

// FrameCommand — restrict a cluster to a time window around its peak day.
type FrameCommand struct {
	Cluster    int64    `long:"cluster" description:"Cluster ID to frame (required)"`
	Filtered   bool     `long:"filtered" description:"Frame the filtered copy instead of the raw one"`
	Start      string   `long:"start" description:"Window start (unix seconds or 'YYYY-MM-DD HH:MM:SS')"`
	End        string   `long:"end" description:"Window end (unix seconds or 'YYYY-MM-DD HH:MM:SS')"`
	SpanBefore *float64 `long:"span-before" description:"Days before the peak day (overrides config)"`
	SpanAfter  *float64 `long:"span-after" description:"Days after the peak day (overrides config)"`

	globals *GlobalFlags
	version string
}

// PeakCommand — locate the 24-hour window of peak activity in a cluster.
type PeakCommand struct {
	Cluster   int64 `long:"cluster" description:"Cluster ID to inspect (required)"`
	Filtered  bool  `long:"filtered" description:"Use the filtered copy instead of the raw one"`
	Precision int64 `long:"precision" description:"Peak search step in seconds (overrides config)"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show database statistics and configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL stored data with a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	db      *sql.DB   // injectable for testing; nil means open default DB
	stdin   io.Reader // injectable for testing; nil means os.Stdin
}
