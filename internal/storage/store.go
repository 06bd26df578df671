package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quotelab/memeframe/internal/memetracker"
)

// ErrNotFound is returned when a requested cluster is not in the store.
var ErrNotFound = errors.New("not found")

// Store defines the interface for cluster persistence.
type Store interface {
	SaveCluster(ctx context.Context, cl *memetracker.Cluster, filtered bool) error
	GetCluster(ctx context.Context, sid int64, filtered bool) (*memetracker.Cluster, error)
	ListClusterSIDs(ctx context.Context, filtered bool) ([]int64, error)
	HasFiltered(ctx context.Context) (bool, error)
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database. Clusters
// live in the store twice at most: once raw, once filtered, told apart
// by the filtered flag.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	getCluster     *sql.Stmt
	getQuotes      *sql.Stmt
	getOccurrences *sql.Stmt
	hasFiltered    *sql.Stmt
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getCluster, err = s.db.Prepare(`
		SELECT id, root, n_quotes, tot_freq
		FROM clusters WHERE sid = ? AND filtered = ?
	`)
	if err != nil {
		return err
	}

	s.getQuotes, err = s.db.Prepare(`
		SELECT sid, string, n_urls, tot_freq
		FROM quotes WHERE cluster_id = ?
	`)
	if err != nil {
		return err
	}

	s.getOccurrences, err = s.db.Prepare(`
		SELECT q.sid, o.ts, o.frequency
		FROM occurrences o
		JOIN quotes q ON q.id = o.quote_id
		WHERE q.cluster_id = ?
		ORDER BY o.ts
	`)
	if err != nil {
		return err
	}

	s.hasFiltered, err = s.db.Prepare(`
		SELECT EXISTS (SELECT 1 FROM clusters WHERE filtered = 1)
	`)
	if err != nil {
		return err
	}

	return nil
}

// occGroup is one stored occurrence row: a timestamp and how many
// times it appears in the timeline.
type occGroup struct {
	ts   int64
	freq int
}

// groupOccurrences compresses a timestamp multiset into sorted
// (timestamp, frequency) rows.
func groupOccurrences(times []int64) []occGroup {
	if len(times) == 0 {
		return nil
	}
	sorted := append([]int64(nil), times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var groups []occGroup
	for _, ts := range sorted {
		if n := len(groups); n > 0 && groups[n-1].ts == ts {
			groups[n-1].freq++
			continue
		}
		groups = append(groups, occGroup{ts: ts, freq: 1})
	}
	return groups
}

// SaveCluster writes cl with its quotes and occurrences in a single
// transaction, replacing any previous copy of the same cluster on the
// same side of the filter.
func (s *SQLiteStore) SaveCluster(ctx context.Context, cl *memetracker.Cluster, filtered bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM clusters WHERE sid = ? AND filtered = ?",
		cl.ID, filtered,
	); err != nil {
		return fmt.Errorf("delete stale cluster %d: %w", cl.ID, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO clusters (sid, filtered, root, n_quotes, tot_freq, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cl.ID, filtered, cl.Root, cl.NQuotes, cl.TotFreq,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert cluster %d: %w", cl.ID, err)
	}
	clusterRow, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("cluster %d row id: %w", cl.ID, err)
	}

	for _, q := range cl.Quotes {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO quotes (cluster_id, sid, string, n_urls, tot_freq)
			 VALUES (?, ?, ?, ?, ?)`,
			clusterRow, q.ID, q.Text, q.NURLs, q.TotFreq,
		)
		if err != nil {
			return fmt.Errorf("insert quote %d: %w", q.ID, err)
		}
		quoteRow, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("quote %d row id: %w", q.ID, err)
		}

		for _, g := range groupOccurrences(q.Timeline().Times()) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO occurrences (quote_id, ts, frequency) VALUES (?, ?, ?)",
				quoteRow, g.ts, g.freq,
			); err != nil {
				return fmt.Errorf("insert occurrences of quote %d: %w", q.ID, err)
			}
		}
	}

	return tx.Commit()
}

// GetCluster loads the cluster with the given dataset ID from the raw
// or filtered side of the store. Occurrence rows are expanded back
// into timestamp multisets; URL and frequency counts are restored as
// stored. Returns ErrNotFound when the cluster is not there.
func (s *SQLiteStore) GetCluster(ctx context.Context, sid int64, filtered bool) (*memetracker.Cluster, error) {
	var (
		rowID   int64
		root    string
		nQuotes int
		totFreq int
	)
	err := s.getCluster.QueryRowContext(ctx, sid, filtered).Scan(&rowID, &root, &nQuotes, &totFreq)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cluster %d: %w", sid, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cluster %d: %w", sid, err)
	}

	cl := memetracker.NewCluster(sid, root)
	cl.NQuotes = nQuotes
	cl.TotFreq = totFreq

	if err := s.loadQuotes(ctx, rowID, cl); err != nil {
		return nil, fmt.Errorf("quotes of cluster %d: %w", sid, err)
	}
	if err := s.loadOccurrences(ctx, rowID, cl); err != nil {
		return nil, fmt.Errorf("occurrences of cluster %d: %w", sid, err)
	}

	return cl, nil
}

// loadQuotes attaches the stored quotes of a cluster row, with empty
// timelines and the counts as saved.
func (s *SQLiteStore) loadQuotes(ctx context.Context, clusterRow int64, cl *memetracker.Cluster) error {
	rows, err := s.getQuotes.QueryContext(ctx, clusterRow)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qSID    int64
			text    string
			nURLs   int
			totFreq int
		)
		if err := rows.Scan(&qSID, &text, &nURLs, &totFreq); err != nil {
			return fmt.Errorf("scan quote: %w", err)
		}
		q := memetracker.NewQuote(qSID, text)
		q.NURLs = nURLs
		q.TotFreq = totFreq
		cl.AddQuote(q)
	}

	return rows.Err()
}

// loadOccurrences expands the stored (ts, frequency) rows back into
// the quote timelines. Quote counts are left as loaded.
func (s *SQLiteStore) loadOccurrences(ctx context.Context, clusterRow int64, cl *memetracker.Cluster) error {
	rows, err := s.getOccurrences.QueryContext(ctx, clusterRow)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			qSID int64
			ts   int64
			freq int
		)
		if err := rows.Scan(&qSID, &ts, &freq); err != nil {
			return fmt.Errorf("scan occurrence: %w", err)
		}
		if q := cl.Quotes[qSID]; q != nil {
			q.Timeline().Add(ts, freq)
		}
	}

	return rows.Err()
}

// ListClusterSIDs returns the dataset IDs stored on one side of the
// filter, ascending.
func (s *SQLiteStore) ListClusterSIDs(ctx context.Context, filtered bool) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT sid FROM clusters WHERE filtered = ? ORDER BY sid", filtered,
	)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	defer rows.Close()

	// Return empty slice rather than nil
	sids := []int64{}
	for rows.Next() {
		var sid int64
		if err := rows.Scan(&sid); err != nil {
			return nil, fmt.Errorf("scan cluster id: %w", err)
		}
		sids = append(sids, sid)
	}

	return sids, rows.Err()
}

// HasFiltered reports whether any filtered cluster has been stored.
func (s *SQLiteStore) HasFiltered(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.hasFiltered.QueryRowContext(ctx).Scan(&exists); err != nil {
		return false, fmt.Errorf("check filtered clusters: %w", err)
	}
	return exists, nil
}

// PurgeAll deletes every cluster, quote, and occurrence.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"occurrences", "quotes", "clusters"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// GetStats returns aggregate statistics about the store.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	// Clusters per side
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN NOT filtered THEN 1 END),
			COUNT(CASE WHEN filtered THEN 1 END)
		FROM clusters
	`).Scan(&stats.RawClusters, &stats.FilteredClusters)
	if err != nil {
		return nil, fmt.Errorf("count clusters: %w", err)
	}

	// Quotes per side
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN NOT c.filtered THEN 1 END),
			COUNT(CASE WHEN c.filtered THEN 1 END)
		FROM quotes q
		JOIN clusters c ON c.id = q.cluster_id
	`).Scan(&stats.RawQuotes, &stats.FilteredQuotes)
	if err != nil {
		return nil, fmt.Errorf("count quotes: %w", err)
	}

	// Occurrence range over the raw side (handle empty store)
	var total, oldest, newest sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT SUM(o.frequency), MIN(o.ts), MAX(o.ts)
		FROM occurrences o
		JOIN quotes q ON q.id = o.quote_id
		JOIN clusters c ON c.id = q.cluster_id
		WHERE NOT c.filtered
	`).Scan(&total, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("occurrence range: %w", err)
	}
	stats.TotalOccurrences = int(total.Int64)
	if oldest.Valid {
		stats.OldestOccurrence = time.Unix(oldest.Int64, 0).UTC()
	}
	if newest.Valid {
		stats.NewestOccurrence = time.Unix(newest.Int64, 0).UTC()
	}

	// Top clusters by citation count
	rows, err := s.db.QueryContext(ctx, `
		SELECT sid, root, tot_freq
		FROM clusters
		WHERE NOT filtered
		ORDER BY tot_freq DESC, sid ASC
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("top clusters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cc ClusterCount
		if err := rows.Scan(&cc.SID, &cc.Root, &cc.TotFreq); err != nil {
			return nil, err
		}
		stats.TopClusters = append(stats.TopClusters, cc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is
// NOT closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.getCluster, s.getQuotes, s.getOccurrences, s.hasFiltered,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
