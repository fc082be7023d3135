// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the resynth pipeline:
// papers, chunks, retrieval results, citations, synthesized answers, and
// the per-stage configuration structs.
package types

import "time"

// Paper holds the metadata and text of one research paper. A Paper is
// immutable once constructed; the caller owns it.
type Paper struct {
	// ID is a slug identifying the paper (e.g. "2301.07041" for arXiv,
	// a PubMed ID, or a caller-assigned slug).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title. Must be non-empty.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Content is the optional full text of the paper.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// ArxivID and PubmedID are optional catalog identifiers.
	ArxivID  string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PubmedID string `json:"pubmed_id,omitempty" yaml:"pubmed_id,omitempty"`

	// DOI is the optional Digital Object Identifier.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the optional source URL.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Journal is the optional journal or venue name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Published is the optional publication date.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
}

// SourceID returns the identifier used to derive chunk IDs: the catalog
// identifier if present, then the caller-assigned slug, then "unknown".
func (p *Paper) SourceID() string {
	switch {
	case p.ArxivID != "":
		return p.ArxivID
	case p.PubmedID != "":
		return p.PubmedID
	case p.ID != "":
		return p.ID
	default:
		return "unknown"
	}
}
