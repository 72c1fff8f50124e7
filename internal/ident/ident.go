// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident recognizes the unique identifiers that Notion embeds in
// exported file names, folder names, and links.
//
// Two shapes are recognized, both case-insensitive: the 36-character dashed
// form (8-4-4-4-12 hex digits, every dash optional) and a bare run of 32 hex
// digits. Any 32 contiguous hex digits count as an identifier, whether or not
// they were ever generated as one.
package ident

import (
	"regexp"
	"strings"
)

const (
	// DashedPattern matches the 8-4-4-4-12 form with optional dashes.
	// It carries no flags or anchors so callers can compose it.
	DashedPattern = `[a-f0-9]{8}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{4}-?[a-f0-9]{12}`

	// BarePattern matches 32 contiguous hex digits.
	BarePattern = `[a-f0-9]{32}`
)

// Shape identifies which identifier form matched.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeDashed
	ShapeBare
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeDashed:
		return "dashed"
	case ShapeBare:
		return "bare"
	default:
		return "none"
	}
}

var (
	dashedPrefix = regexp.MustCompile(`(?i)^` + DashedPattern)
	barePrefix   = regexp.MustCompile(`(?i)^` + BarePattern)
	anyShape     = regexp.MustCompile(`(?i)` + DashedPattern)
)

// MatchAt reports whether an identifier starts at byte offset pos of s and
// returns its shape and length. A dashed-pattern match without any dash is
// reported as ShapeBare. Out-of-range positions never match.
func MatchAt(s string, pos int) (Shape, int) {
	if pos < 0 || pos >= len(s) {
		return ShapeNone, 0
	}
	rest := s[pos:]
	if loc := dashedPrefix.FindStringIndex(rest); loc != nil {
		if strings.Contains(rest[:loc[1]], "-") {
			return ShapeDashed, loc[1]
		}
		return ShapeBare, loc[1]
	}
	if loc := barePrefix.FindStringIndex(rest); loc != nil {
		return ShapeBare, loc[1]
	}
	return ShapeNone, 0
}

// Find returns the byte offsets of the leftmost identifier in s, or nil.
func Find(s string) []int {
	return anyShape.FindStringIndex(s)
}

// Contains reports whether s holds an identifier anywhere.
func Contains(s string) bool {
	return anyShape.MatchString(s)
}

// IsIdentifier reports whether s is exactly one identifier.
func IsIdentifier(s string) bool {
	shape, n := MatchAt(s, 0)
	return shape != ShapeNone && n == len(s)
}
