// Package report persists batch comparison runs to SQLite.
//
// Store is safe for concurrent use; the underlying sql.DB serializes access.
// Saving a run and its pairs happens in one transaction so a run row never
// exists without its pairs.
package report

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intentlab/intentprint/internal/logging"
	"github.com/intentlab/intentprint/score"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// snippetLen caps the stored text excerpts. The report is evidence for a
// human reviewer, not a copy of the dataset.
const snippetLen = 120

// Run is the header row of one batch comparison.
type Run struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Threshold float64   `json:"threshold"`
	Texts     int       `json:"texts"`
	Pairs     int       `json:"pairs"`
	CreatedAt time.Time `json:"created_at"`
}

// Pair is one persisted pair report.
type Pair struct {
	RunID       string            `json:"run_id"`
	I           int               `json:"i"`
	J           int               `json:"j"`
	Score       float64           `json:"score"`
	Verdict     string            `json:"verdict"`
	Breakdown   score.Breakdown   `json:"breakdown"`
	Explanation score.Explanation `json:"explanation"`
	SnippetA    string            `json:"snippet_a"`
	SnippetB    string            `json:"snippet_b"`
}

// Store handles persistence of comparison runs.
type Store struct {
	db *sql.DB
}

// Open creates or opens the report database at the given path and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL for concurrent readers while a run is being saved
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL,
		threshold REAL NOT NULL,
		texts INTEGER NOT NULL,
		pairs INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS pairs (
		run_id TEXT NOT NULL REFERENCES runs(id),
		i INTEGER NOT NULL,
		j INTEGER NOT NULL,
		score REAL NOT NULL,
		verdict TEXT NOT NULL,
		structural REAL NOT NULL,
		tag_overlap REAL NOT NULL,
		pattern_match REAL NOT NULL,
		explanation TEXT NOT NULL,
		snippet_a TEXT,
		snippet_b TEXT,
		PRIMARY KEY (run_id, i, j)
	);

	CREATE INDEX IF NOT EXISTS idx_pairs_run ON pairs(run_id, score DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a batch result in one transaction and returns the run ID.
// texts are the batch inputs; only truncated snippets of the paired texts are
// stored.
func (s *Store) SaveRun(dataset string, threshold float64, texts []string, reports []score.PairReport) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, dataset, threshold, texts, pairs, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, dataset, threshold, len(texts), len(reports), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO pairs
		(run_id, i, j, score, verdict, structural, tag_overlap, pattern_match, explanation, snippet_a, snippet_b)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare pair insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		expl, err := json.Marshal(r.Explanation)
		if err != nil {
			return "", fmt.Errorf("failed to encode explanation: %w", err)
		}
		_, err = stmt.Exec(runID, r.I, r.J, r.Score, r.Verdict,
			r.Breakdown.Structural, r.Breakdown.TagOverlap, r.Breakdown.PatternMatch,
			string(expl), snippet(texts, r.I), snippet(texts, r.J))
		if err != nil {
			return "", fmt.Errorf("failed to insert pair (%d, %d): %w", r.I, r.J, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}

	logging.Info("Saved comparison run", "run", runID, "pairs", len(reports))
	return runID, nil
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT id, dataset, threshold, texts, pairs, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Dataset, &r.Threshold, &r.Texts, &r.Pairs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PairsForRun returns a run's pairs ordered by score descending.
func (s *Store) PairsForRun(runID string) ([]Pair, error) {
	rows, err := s.db.Query(`SELECT run_id, i, j, score, verdict,
		structural, tag_overlap, pattern_match, explanation, snippet_a, snippet_b
		FROM pairs WHERE run_id = ? ORDER BY score DESC, i, j`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	var pairs []Pair
	for rows.Next() {
		var p Pair
		var expl string
		err := rows.Scan(&p.RunID, &p.I, &p.J, &p.Score, &p.Verdict,
			&p.Breakdown.Structural, &p.Breakdown.TagOverlap, &p.Breakdown.PatternMatch,
			&expl, &p.SnippetA, &p.SnippetB)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		if err := json.Unmarshal([]byte(expl), &p.Explanation); err != nil {
			logging.Warn("Skipping malformed explanation", "run", p.RunID, "i", p.I, "j", p.J, "error", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func snippet(texts []string, i int) string {
	if i < 0 || i >= len(texts) {
		return ""
	}
	t := texts[i]
	if len(t) <= snippetLen {
		return t
	}
	// Cut on a rune boundary.
	cut := snippetLen
	for cut > 0 && t[cut]&0xC0 == 0x80 {
		cut--
	}
	return t[:cut] + "…"
}
