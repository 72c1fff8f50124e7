// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package names

import (
	"path"
	"path/filepath"
	"strings"
)

// Untitled names a destination whose every segment normalized to nothing.
const Untitled = "Untitled"

// CleanPath normalizes every segment of a path relative to the export root
// and returns the slash-separated destination path. Segments that normalize
// to empty are dropped. When all of them are dropped the normalized file name
// alone is used, and when that is empty too the result is Untitled.
// A non-empty input never yields an empty result.
func CleanPath(rel string) string {
	if rel == "" {
		return ""
	}
	rel = filepath.ToSlash(rel)

	parts := SplitClean(rel)
	if len(parts) > 0 {
		return strings.Join(parts, "/")
	}

	if base := Normalize(path.Base(rel)); base != "" && base != "." {
		return base
	}
	return Untitled
}

// SplitClean splits a slash-separated path, normalizes each segment, and
// returns the non-empty results in order.
func SplitClean(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			continue
		}
		if clean := Normalize(seg); clean != "" {
			parts = append(parts, clean)
		}
	}
	return parts
}

// Stem returns the file name of p without directory and final extension.
func Stem(p string) string {
	base := path.Base(filepath.ToSlash(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// ReplaceExt swaps the final extension of a slash-separated path.
func ReplaceExt(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}
