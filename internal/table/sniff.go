// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"errors"
	"unicode/utf8"
)

// ErrUndetectableDelimiter is returned when no field separator can be
// inferred from a sample.
var ErrUndetectableDelimiter = errors.New("could not determine delimiter")

// candidates lists the delimiters Sniff considers, in order of preference.
var candidates = []rune{',', '\t', ';', '|', ':'}

// Sniff infers the field delimiter of delimited text from its leading
// sample. A candidate must occur in the header record; among those, the one
// whose per-record count matches the header count in the most records wins,
// ties going to the earlier candidate. Occurrences inside double quotes are
// ignored. When truncated is set the last, possibly partial, record of the
// sample is disregarded.
func Sniff(sample string, truncated bool) (rune, error) {
	records := countRecords(sample)
	if truncated && len(records) > 1 {
		records = records[:len(records)-1]
	}
	if len(records) == 0 {
		return 0, ErrUndetectableDelimiter
	}

	header := records[0]
	best, bestScore := rune(0), -1
	for _, c := range candidates {
		want := header[c]
		if want == 0 {
			continue
		}
		score := 0
		for _, rec := range records {
			if rec[c] == want {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0 {
		return 0, ErrUndetectableDelimiter
	}
	return best, nil
}

// countRecords splits s into records on line breaks outside double quotes
// and counts candidate delimiters per record. Blank records are dropped.
func countRecords(s string) []map[rune]int {
	var (
		records []map[rune]int
		counts  = map[rune]int{}
		inQuote bool
		blank   = true
	)
	flush := func() {
		if !blank {
			records = append(records, counts)
		}
		counts = map[rune]int{}
		blank = true
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == '"':
			inQuote = !inQuote
			blank = false
		case (r == '\n' || r == '\r') && !inQuote:
			flush()
		case inQuote:
			blank = false
		default:
			if r != ' ' && r != '\t' {
				blank = false
			}
			if isCandidate(r) {
				counts[r]++
				blank = false
			}
		}
	}
	flush()
	return records
}

func isCandidate(r rune) bool {
	for _, c := range candidates {
		if c == r {
			return true
		}
	}
	return false
}
