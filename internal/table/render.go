// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import "strings"

var cellEscaper = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
	"\r", "<br>",
)

// Render formats rows as a Markdown table. Row 0 is the header; every data
// row is padded with empty cells or truncated to the header width.
func Render(rows [][]string) string {
	if len(rows) == 0 {
		return EmptyMarker
	}
	header := rows[0]
	width := len(header)

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(header))
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")

	for _, row := range rows[1:] {
		cells := make([]string, width)
		copy(cells, row)
		lines = append(lines, renderRow(cells))
	}
	return strings.Join(lines, "\n")
}

func renderRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = cellEscaper.Replace(c)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}
