package storage

import "database/sql"

// migrateV001 creates the initial schema: clusters, quotes, and
// occurrences, plus their indexes. Every statement uses IF NOT EXISTS
// for idempotency.
//
// A cluster may exist twice, once raw and once filtered; the sid
// column carries its dataset ID and the filtered flag tells the two
// copies apart. Occurrence rows compress equal timestamps into a
// (ts, frequency) pair.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS clusters (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			sid        INTEGER NOT NULL,
			filtered   BOOLEAN NOT NULL DEFAULT 0,
			root       TEXT NOT NULL,
			n_quotes   INTEGER NOT NULL DEFAULT 0,
			tot_freq   INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(sid, filtered)
		)`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			cluster_id INTEGER NOT NULL REFERENCES clusters(id) ON DELETE CASCADE,
			sid        INTEGER NOT NULL,
			string     TEXT NOT NULL,
			n_urls     INTEGER NOT NULL DEFAULT 0,
			tot_freq   INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS occurrences (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			quote_id  INTEGER NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			ts        INTEGER NOT NULL,
			frequency INTEGER NOT NULL DEFAULT 1
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_clusters_sid      ON clusters(sid, filtered)`,
		`CREATE INDEX IF NOT EXISTS idx_clusters_filtered ON clusters(filtered)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_cluster    ON quotes(cluster_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_sid        ON quotes(sid)`,
		`CREATE INDEX IF NOT EXISTS idx_occurrences_quote ON occurrences(quote_id)`,
		`CREATE INDEX IF NOT EXISTS idx_occurrences_ts    ON occurrences(ts)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
