// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists papers and their chunks in SQLite and keeps a
// lexical full-text index alongside the vector store. The index uses the
// FTS5 module, so builds need the sqlite_fts5 tag (the mage targets set it).
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/resynth/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "resynth.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the catalog database at dataDir/index/resynth.db
// and creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			journal TEXT,
			doi TEXT,
			url TEXT,
			published TEXT,
			fingerprint TEXT,
			indexed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			paper_id TEXT NOT NULL REFERENCES papers(id),
			text TEXT NOT NULL,
			start_char INTEGER,
			end_char INTEGER,
			chunk_type TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_paper_id ON chunks(paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chunks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chunks_fts USING fts5(text, content=chunks, content_rowid=rowid)`,
			`CREATE TRIGGER chunks_ai AFTER INSERT ON chunks BEGIN
				INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER chunks_ad AFTER DELETE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER chunks_au AFTER UPDATE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO chunks_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Fingerprint hashes the parts of a paper that affect its chunks. Papers
// whose fingerprint matches the stored one can skip re-indexing.
func Fingerprint(paper *types.Paper) string {
	h := sha256.New()
	h.Write([]byte(paper.Title))
	h.Write([]byte{0})
	h.Write([]byte(paper.Abstract))
	h.Write([]byte{0})
	h.Write([]byte(paper.Content))
	return hex.EncodeToString(h.Sum(nil))
}

// StoredFingerprint returns the fingerprint recorded for a paper, or ""
// if the paper has never been indexed. paperID is the paper's SourceID.
func (s *Store) StoredFingerprint(ctx context.Context, paperID string) (string, error) {
	var fp sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM papers WHERE id = ?`, paperID,
	).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up fingerprint: %w", err)
	}
	return fp.String, nil
}

// UpsertPaper replaces a paper's record and chunks in one transaction.
// Rows are keyed by the paper's SourceID, the same identifier chunks carry
// as PaperID, so the chunks foreign key holds even when a paper's slug
// differs from its catalog identifier.
func (s *Store) UpsertPaper(ctx context.Context, paper *types.Paper, chunks []types.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	paperID := paper.SourceID()
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE paper_id = ?`, paperID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	authorsJSON, _ := json.Marshal(paper.Authors)
	published := ""
	if !paper.Published.IsZero() {
		published = paper.Published.Format("2006-01-02")
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, journal, doi, url, published, fingerprint, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			journal=excluded.journal, doi=excluded.doi, url=excluded.url,
			published=excluded.published, fingerprint=excluded.fingerprint,
			indexed_at=excluded.indexed_at`,
		paperID, paper.Title, string(authorsJSON), paper.Abstract,
		paper.Journal, paper.DOI, paper.URL, published,
		Fingerprint(paper), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, paper_id, text, start_char, end_char, chunk_type)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ChunkID, chunk.PaperID, chunk.Text,
			chunk.StartChar, chunk.EndChar, string(chunk.Metadata.Type),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ChunkID, err)
		}
	}

	return tx.Commit()
}

// PaperRecord is a catalog row for listing.
type PaperRecord struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors" yaml:"authors"`
	Journal   string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	Published string   `json:"published,omitempty" yaml:"published,omitempty"`
	Chunks    int      `json:"chunks" yaml:"chunks"`
	IndexedAt string   `json:"indexed_at,omitempty" yaml:"indexed_at,omitempty"`
}

// ListPapers returns all indexed papers with their chunk counts, ordered
// by paper ID.
func (s *Store) ListPapers(ctx context.Context) ([]PaperRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.authors, p.journal, p.published, p.indexed_at,
			(SELECT COUNT(*) FROM chunks c WHERE c.paper_id = p.id)
		 FROM papers p ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var records []PaperRecord
	for rows.Next() {
		var (
			rec         PaperRecord
			authorsJSON sql.NullString
			journal     sql.NullString
			published   sql.NullString
			indexedAt   sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &authorsJSON, &journal, &published, &indexedAt, &rec.Chunks); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &rec.Authors)
		}
		rec.Journal = journal.String
		rec.Published = published.String
		rec.IndexedAt = indexedAt.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats summarizes the catalog contents.
type Stats struct {
	Papers int `json:"papers" yaml:"papers"`
	Chunks int `json:"chunks" yaml:"chunks"`
}

// Summarize counts papers and chunks.
func (s *Store) Summarize(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&stats.Papers); err != nil {
		return Stats{}, fmt.Errorf("counting papers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&stats.Chunks); err != nil {
		return Stats{}, fmt.Errorf("counting chunks: %w", err)
	}
	return stats, nil
}
