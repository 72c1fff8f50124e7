// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package migrate

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/notion-migrate/internal/names"
	"github.com/pdiddy/notion-migrate/internal/textutil"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

// Output is the result of transforming one source file.
type Output struct {
	// Record describes the file's outcome. Status is left to the caller,
	// which knows whether writing succeeded.
	Record types.FileRecord

	// Content is the rewritten document, or the unmodified input for
	// tables and other files.
	Content []byte

	// TableDoc is the prose-table document for tabular files, to be
	// written at Record.TablePath.
	TableDoc []byte

	// Issue is the recoverable problem met during the transform, if any.
	Issue *types.Issue
}

// Classify returns the kind of a source file from its extension, compared
// case-insensitively.
func (m *Migrator) Classify(rel string) types.FileKind {
	ext := path.Ext(rel)
	switch {
	case strings.EqualFold(ext, m.cfg.Rewrite.DocumentExt):
		return types.KindDocument
	case strings.EqualFold(ext, m.cfg.Tables.Ext):
		return types.KindTable
	default:
		return types.KindOther
	}
}

// Transform converts one file's content. rel is the path relative to the
// source root. It touches no files: the destination paths are computed from
// rel alone, so a file's own destination and every link to it agree.
func (m *Migrator) Transform(rel string, kind types.FileKind, content []byte) Output {
	rel = strings.TrimPrefix(path.Clean(filepath.ToSlash(rel)), "./")
	out := Output{
		Record: types.FileRecord{
			SourcePath: rel,
			DestPath:   names.CleanPath(rel),
			Kind:       kind,
		},
	}

	switch kind {
	case types.KindDocument:
		text, lossy := textutil.Decode(content)
		res := m.rw.Rewrite(text)
		out.Content = []byte(res.Content)
		out.Record.LinksRewritten = res.Rewritten()
		out.Record.LinksUnresolved = res.Unresolved()
		out.Record.Lossy = lossy
		switch {
		case lossy:
			out.Issue = lossyIssue(rel)
		case out.Record.LinksUnresolved > 0:
			out.Issue = &types.Issue{
				SourcePath: rel,
				Kind:       types.IssueUnresolvableLink,
				Message:    fmt.Sprintf("%d link(s) left unchanged", out.Record.LinksUnresolved),
			}
		}

	case types.KindTable:
		out.Content = content
		out.Record.TablePath = names.ReplaceExt(out.Record.DestPath, m.cfg.Rewrite.DocumentExt)

		res := m.tables.Convert(rel, content)
		out.Record.LinksRewritten = res.LinksRewritten
		out.Record.Lossy = res.Lossy

		doc, err := m.tables.Document(names.Stem(out.Record.DestPath), rel, res)
		if err != nil {
			out.Issue = &types.Issue{SourcePath: rel, Kind: types.IssueMalformedTable, Message: err.Error()}
			break
		}
		out.TableDoc = []byte(doc)
		switch {
		case res.Issue != nil:
			out.Issue = res.Issue
		case res.Lossy:
			out.Issue = lossyIssue(rel)
		}

	default:
		out.Content = content
	}
	return out
}

func lossyIssue(rel string) *types.Issue {
	return &types.Issue{
		SourcePath: rel,
		Kind:       types.IssueUnreadableInput,
		Message:    "content is not valid UTF-8; invalid bytes were replaced",
	}
}
