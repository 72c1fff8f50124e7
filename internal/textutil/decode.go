// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil decodes exported file content.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode returns raw as UTF-8 text with a leading byte order mark removed.
// Invalid byte sequences are replaced with U+FFFD instead of failing; lossy
// reports whether that happened.
func Decode(raw []byte) (text string, lossy bool) {
	lossy = !utf8.Valid(raw)
	out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(strings.TrimPrefix(string(raw), "\ufeff"), "\ufffd"), true
	}
	return string(out), lossy
}
