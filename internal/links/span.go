// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package links

import (
	"regexp"
	"strings"
)

// span is a piece of content. Frozen spans were produced or claimed by a
// pass and are skipped by every later pass.
type span struct {
	text   string
	frozen bool
}

type replaceFunc func(match []string) (string, Outcome)

// applyPass runs re over the unfrozen spans, replacing each match with fn's
// result and freezing it.
func applyPass(spans []span, re *regexp.Regexp, pass Pass, fn replaceFunc, edits *[]Edit) []span {
	out := make([]span, 0, len(spans))
	for _, sp := range spans {
		if sp.frozen {
			out = append(out, sp)
			continue
		}
		locs := re.FindAllStringSubmatchIndex(sp.text, -1)
		if locs == nil {
			out = append(out, sp)
			continue
		}
		prev := 0
		for _, loc := range locs {
			if loc[0] > prev {
				out = append(out, span{text: sp.text[prev:loc[0]]})
			}
			match := submatches(sp.text, loc)
			repl, outcome := fn(match)
			*edits = append(*edits, Edit{Pass: pass, Outcome: outcome, Original: match[0], Result: repl})
			out = append(out, span{text: repl, frozen: true})
			prev = loc[1]
		}
		if prev < len(sp.text) {
			out = append(out, span{text: sp.text[prev:]})
		}
	}
	return out
}

func submatches(s string, loc []int) []string {
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return m
}

func joinSpans(spans []span) string {
	var b strings.Builder
	for _, sp := range spans {
		b.WriteString(sp.text)
	}
	return b.String()
}
