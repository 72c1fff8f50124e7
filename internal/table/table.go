// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table converts exported Notion databases (delimited text files)
// into Markdown prose tables whose page references are Obsidian
// cross-references.
package table

import (
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion-migrate/internal/links"
	"github.com/pdiddy/notion-migrate/internal/textutil"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

const (
	// EmptyMarker stands in for the table body when the input has no rows.
	EmptyMarker = "Empty table"

	errorMarkerPrefix = "Error converting CSV: "
)

// Result holds the outcome of converting one tabular file.
type Result struct {
	// Body is the rendered table, EmptyMarker, or an error marker.
	Body string

	// Rows is the number of data rows rendered, excluding the header.
	Rows int

	// Columns is the header width.
	Columns int

	// Delimiter is the sniffed field separator.
	Delimiter rune

	// Lossy is set when the input needed substitution to decode.
	Lossy bool

	// LinksRewritten counts cell references turned into cross-references.
	LinksRewritten int

	// Issue is set when conversion failed; Body then holds the error marker.
	Issue *types.Issue
}

// Failed reports whether conversion failed.
func (r Result) Failed() bool {
	return r.Issue != nil
}

// Converter turns delimited text into Markdown tables.
type Converter struct {
	rw          *links.Rewriter
	sampleSize  int
	frontmatter bool
}

// NewConverter creates a Converter that rewrites cell references with rw.
func NewConverter(rw *links.Rewriter, cfg types.TableConfig) *Converter {
	cfg = cfg.WithDefaults()
	return &Converter{rw: rw, sampleSize: cfg.SampleSize, frontmatter: cfg.Frontmatter}
}

// Convert decodes, parses, and renders raw delimited content read from
// sourcePath. It never returns an error: failures are reported through
// Result.Issue with an error marker as the body, so the caller can keep
// going with other files.
func (c *Converter) Convert(sourcePath string, raw []byte) Result {
	text, lossy := textutil.Decode(raw)
	res := Result{Lossy: lossy}

	if strings.TrimSpace(text) == "" {
		res.Body = EmptyMarker
		return res
	}

	sample, truncated := leading(text, c.sampleSize)
	delim, err := Sniff(sample, truncated)
	if err != nil {
		return c.fail(res, sourcePath, types.IssueUndetectableDelimiter, err)
	}
	res.Delimiter = delim

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return c.fail(res, sourcePath, types.IssueMalformedTable, err)
	}
	if len(rows) == 0 {
		res.Body = EmptyMarker
		return res
	}

	for _, row := range rows {
		for j, cell := range row {
			cr := c.rw.RewriteCell(cell)
			row[j] = cr.Content
			res.LinksRewritten += cr.Rewritten()
		}
	}

	res.Body = Render(rows)
	res.Columns = len(rows[0])
	res.Rows = len(rows) - 1
	return res
}

func (c *Converter) fail(res Result, sourcePath string, kind types.IssueKind, err error) Result {
	res.Body = errorMarkerPrefix + err.Error()
	res.Issue = &types.Issue{
		SourcePath: sourcePath,
		Kind:       kind,
		Message:    fmt.Sprintf("converting table: %v", err),
	}
	return res
}

// frontmatter is the YAML header of a generated table document.
type frontmatter struct {
	Source    string `yaml:"source"`
	Rows      int    `yaml:"rows"`
	Columns   int    `yaml:"columns"`
	Delimiter string `yaml:"delimiter,omitempty"`
}

// Document renders the Markdown file written next to a migrated table:
// optional frontmatter, a level-one heading with title, and the body.
func (c *Converter) Document(title, sourcePath string, res Result) (string, error) {
	var b strings.Builder
	if c.frontmatter {
		fm := frontmatter{Source: sourcePath, Rows: res.Rows, Columns: res.Columns}
		if res.Delimiter != 0 {
			fm.Delimiter = string(res.Delimiter)
		}
		data, err := yaml.Marshal(&fm)
		if err != nil {
			return "", fmt.Errorf("marshaling frontmatter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(data)
		b.WriteString("---\n\n")
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString(res.Body)
	b.WriteString("\n")
	return b.String(), nil
}

// leading returns at most n bytes from the start of s, cut on a rune
// boundary, and whether anything was cut off.
func leading(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n], true
}
