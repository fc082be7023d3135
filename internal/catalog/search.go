// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/resynth/pkg/types"
)

// SearchOptions holds parameters for lexical catalog queries.
type SearchOptions struct {
	// Query is the FTS5 full-text search string.
	Query string

	// PaperID restricts results to a single paper.
	PaperID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// SearchResult is a chunk row joined with its paper metadata.
type SearchResult struct {
	types.Chunk
	Rank float64 `json:"rank" yaml:"rank"`
}

// Search runs an FTS5 query over chunk text, ranked by relevance. With an
// empty query it lists chunks ordered by paper and offset instead.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT c.id, c.paper_id, c.text, c.start_char, c.end_char, c.chunk_type,
				p.title, p.authors, p.url, p.journal, p.doi, p.published, chunks_fts.rank
			FROM chunks_fts
			JOIN chunks c ON c.rowid = chunks_fts.rowid
			LEFT JOIN papers p ON c.paper_id = p.id
			WHERE chunks_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT c.id, c.paper_id, c.text, c.start_char, c.end_char, c.chunk_type,
				p.title, p.authors, p.url, p.journal, p.doi, p.published, 0 AS rank
			FROM chunks c
			LEFT JOIN papers p ON c.paper_id = p.id
			WHERE 1=1`)
	}

	if opts.PaperID != "" {
		qb.WriteString(` AND c.paper_id = ?`)
		args = append(args, opts.PaperID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY chunks_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY c.paper_id, c.start_char`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			sr          SearchResult
			chunkType   sql.NullString
			title       sql.NullString
			authorsJSON sql.NullString
			paperURL    sql.NullString
			journal     sql.NullString
			doi         sql.NullString
			published   sql.NullString
		)

		if err := rows.Scan(
			&sr.ChunkID, &sr.PaperID, &sr.Text, &sr.StartChar, &sr.EndChar, &chunkType,
			&title, &authorsJSON, &paperURL, &journal, &doi, &published, &sr.Rank,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		sr.Metadata = types.ChunkMetadata{
			PaperTitle:   title.String,
			PaperURL:     paperURL.String,
			PaperJournal: journal.String,
			PaperDOI:     doi.String,
			Published:    published.String,
			Type:         types.ChunkType(chunkType.String),
		}
		if authorsJSON.Valid {
			json.Unmarshal([]byte(authorsJSON.String), &sr.Metadata.PaperAuthors)
		}
		sr.PaperTitle = title.String
		sr.PaperAuthors = sr.Metadata.PaperAuthors

		results = append(results, sr)
	}

	return results, rows.Err()
}
