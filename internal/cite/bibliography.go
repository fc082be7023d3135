// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/resynth/pkg/types"
)

// RenderBibliography produces a reference list for the citations: a
// heading followed by one blank-line-separated entry per citation.
// Numeric-style bibliographies are ordered by citation number; all other
// styles sort alphabetically by first author, ties keeping their
// first-seen order.
func RenderBibliography(citations []types.Citation, style types.CitationStyle) string {
	if len(citations) == 0 {
		return ""
	}

	ordered := make([]types.Citation, len(citations))
	copy(ordered, citations)

	if style == types.StyleNumeric {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Number < ordered[j].Number
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			return firstAuthor(ordered[i]) < firstAuthor(ordered[j])
		})
	}

	lines := []string{"## References"}
	for _, c := range ordered {
		lines = append(lines, Entry(c, style))
	}
	return strings.Join(lines, "\n\n")
}

// Entry renders one bibliography entry in the requested style. Styles
// without a dedicated entry format (numeric, author_date) use APA.
func Entry(c types.Citation, style types.CitationStyle) string {
	if style == types.StyleMLA {
		return formatMLA(c)
	}
	return formatAPA(c)
}

func firstAuthor(c types.Citation) string {
	if len(c.Authors) == 0 {
		return "Anonymous"
	}
	return c.Authors[0]
}

// authorList renders authors per the shared truncation rule: up to two
// authors in full, more than two as "First, et al."
func authorList(c types.Citation) string {
	switch {
	case len(c.Authors) == 0:
		return "Anonymous"
	case len(c.Authors) <= 2:
		return strings.Join(c.Authors, ", ")
	default:
		return c.Authors[0] + ", et al."
	}
}

// formatAPA renders: Author(s) (Year). Title. *Journal* doi-or-url.
func formatAPA(c types.Citation) string {
	var b strings.Builder
	b.WriteString(authorList(c))
	if c.Year > 0 {
		b.WriteString(" (" + strconv.Itoa(c.Year) + ").")
	} else {
		b.WriteString(" (n.d.).")
	}
	b.WriteString(" " + c.PaperTitle + ".")
	if c.Journal != "" {
		b.WriteString(" *" + c.Journal + "*")
	}
	switch {
	case c.DOI != "":
		b.WriteString(" https://doi.org/" + c.DOI)
	case c.URL != "":
		b.WriteString(" " + c.URL)
	}
	return b.String()
}

// formatMLA renders: Author(s). "Title." *Journal*, Year. doi-or-url.
func formatMLA(c types.Citation) string {
	var b strings.Builder
	b.WriteString(authorList(c))
	if len(c.Authors) <= 2 {
		b.WriteString(".")
	}
	b.WriteString(` "` + c.PaperTitle + `."`)
	if c.Journal != "" {
		b.WriteString(" *" + c.Journal + "*")
	}
	if c.Year > 0 {
		b.WriteString(", " + strconv.Itoa(c.Year))
	}
	b.WriteString(".")
	switch {
	case c.DOI != "":
		b.WriteString(" doi:" + c.DOI)
	case c.URL != "":
		b.WriteString(" " + c.URL)
	}
	return b.String()
}
