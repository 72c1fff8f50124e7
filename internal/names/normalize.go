// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package names turns Notion export names into Obsidian-safe names.
// It strips the identifiers Notion appends to every page, folder, and
// attachment and replaces characters Obsidian refuses in file names.
//
// Normalization is a pure function of the source name, so a file's own
// destination and every link pointing at it derive the same clean name
// independently.
package names

import (
	"regexp"
	"strings"

	"github.com/pdiddy/notion-migrate/internal/ident"
)

// ws matches one whitespace character, including non-ASCII spaces.
const ws = `[\s\p{Zs}]`

// ext matches any number of trailing file extensions, as in ".tar.gz".
const ext = `((?:\.[^.\s]+)*)`

var (
	// trailingDashed matches "<name> <id>" and "<name> <id>.ext".
	trailingDashed = regexp.MustCompile(`(?is)^(.*?)` + ws + `+(` + ident.DashedPattern + `)` + ext + `$`)

	// trailingBare matches "<name> <32 hex>" and "<name> <32 hex>.ext".
	trailingBare = regexp.MustCompile(`(?is)^(.*?)` + ws + `+(` + ident.BarePattern + `)` + ext + `$`)

	// underscoreBeforeExt matches "<name>_<id>.ext".
	underscoreBeforeExt = regexp.MustCompile(`(?is)^(.*)_(` + ident.BarePattern + `|` + ident.DashedPattern + `)((?:\.[^.\s]+)+)$`)

	illegalChars = regexp.MustCompile(`[*"/\\<>:|?]`)
	separatorRun = regexp.MustCompile(`[_\s\p{Zs}]+`)
)

// RemoveIdentifier strips a trailing identifier from a single name.
// The identifier must be separated from the text before it by whitespace,
// or by an underscore when it sits right before the file extension.
// Extensions after the identifier are kept. The result is trimmed.
func RemoveIdentifier(name string) string {
	if !ident.Contains(name) {
		return strings.TrimSpace(name)
	}
	stripped := stripIdentifier(trailingDashed, name)
	stripped = stripIdentifier(trailingBare, stripped)
	if stripped == name {
		stripped = stripIdentifier(underscoreBeforeExt, stripped)
	}
	return strings.TrimSpace(stripped)
}

// stripIdentifier drops the identifier group of re's match from s, keeping
// the name before it and the extensions after it.
func stripIdentifier(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil || !ident.IsIdentifier(m[2]) {
		return s
	}
	return m[1] + m[3]
}

// CleanFilename replaces characters that are illegal in Obsidian file names
// with spaces, collapses runs of underscores and whitespace into one space,
// and trims the result.
func CleanFilename(name string) string {
	name = illegalChars.ReplaceAllString(name, " ")
	name = separatorRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Normalize strips identifiers and illegal characters from one path segment.
// Both steps repeat until the name is stable, so Normalize(Normalize(s)) ==
// Normalize(s). The result may be empty.
func Normalize(segment string) string {
	for {
		next := CleanFilename(RemoveIdentifier(segment))
		if next == segment {
			return next
		}
		segment = next
	}
}
