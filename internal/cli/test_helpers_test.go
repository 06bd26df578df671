package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/quotelab/memeframe/internal/memetracker"
	"github.com/quotelab/memeframe/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// openTestStore creates a migrated in-memory store for command tests.
func openTestStore(t *testing.T) (*storage.SQLiteStore, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// One connection, so every query sees the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.Migrate(db))

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, db
}

// seedCluster stores a small raw cluster. Its peak window starts at
// 2008-08-01 12:00:00 UTC (1217592000) and holds four of the six
// occurrences.
func seedCluster(t *testing.T, store *storage.SQLiteStore, sid int64) *memetracker.Cluster {
	t.Helper()

	base := int64(1217548800) // 2008-08-01 00:00:00 UTC
	cl := memetracker.NewCluster(sid, "yes we can yes we can")
	cl.AddQuote(memetracker.NewQuoteFromTimes(sid*100+1, "yes we can", []int64{
		base, base + memetracker.Day, base + memetracker.Day + 600, base + memetracker.Day + 1200,
	}))
	cl.AddQuote(memetracker.NewQuoteFromTimes(sid*100+2, "yes we can can", []int64{
		base + memetracker.Day + 3600, base + 3*memetracker.Day,
	}))
	cl.RecountAggregates()

	require.NoError(t, store.SaveCluster(context.Background(), cl, false))
	return cl
}

// seedEmptyCluster stores a raw cluster whose single quote was never
// cited anywhere.
func seedEmptyCluster(t *testing.T, store *storage.SQLiteStore, sid int64) *memetracker.Cluster {
	t.Helper()

	cl := memetracker.NewCluster(sid, "a root nobody ever cited")
	cl.AddQuote(memetracker.NewQuote(sid*100+1, "a quote nobody ever cited"))
	cl.RecountAggregates()

	require.NoError(t, store.SaveCluster(context.Background(), cl, false))
	return cl
}
