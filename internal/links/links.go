// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package links rewrites the links of exported Notion pages into Obsidian
// cross-references.
//
// Document content is processed in three ordered passes: platform URL links,
// asset (image/embed) links, and local document links. A link matched by one
// pass is frozen; later passes never see it again, so the bracket syntax the
// passes share cannot be processed twice.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/notion-migrate/internal/names"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

// Pass identifies the rewrite pass that handled a link.
type Pass string

const (
	PassPlatformURL Pass = "platform_url"
	PassAsset       Pass = "asset"
	PassDocument    Pass = "document"
	PassCell        Pass = "cell"
)

// Outcome records what a pass did with a matched link.
type Outcome string

const (
	// OutcomeRewritten means the link was replaced.
	OutcomeRewritten Outcome = "rewritten"

	// OutcomePassThrough means the link is not one the pass converts
	// (an absolute URL or a non-document target) and was kept verbatim.
	OutcomePassThrough Outcome = "passthrough"

	// OutcomeUnresolved means the link looked convertible but yielded no
	// usable title or path, so it was kept verbatim.
	OutcomeUnresolved Outcome = "unresolved"
)

// Edit describes one matched link.
type Edit struct {
	Pass     Pass    `json:"pass" yaml:"pass"`
	Outcome  Outcome `json:"outcome" yaml:"outcome"`
	Original string  `json:"original" yaml:"original"`
	Result   string  `json:"result" yaml:"result"`
}

// Result holds rewritten content and the edits that produced it.
type Result struct {
	Content string
	Edits   []Edit
}

// Rewritten counts links that were replaced.
func (r Result) Rewritten() int { return r.count(OutcomeRewritten) }

// Unresolved counts links kept verbatim because no title could be derived.
func (r Result) Unresolved() int { return r.count(OutcomeUnresolved) }

func (r Result) count(o Outcome) int {
	n := 0
	for _, e := range r.Edits {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

var (
	assetLinkRe    = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	documentLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	ipv4PrefixRe   = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
)

// Rewriter rewrites links in document and table content.
type Rewriter struct {
	docExt     string
	platformRe *regexp.Regexp
	cellRe     *regexp.Regexp
}

// NewRewriter builds a Rewriter for the given document extension and
// platform host token. Zero values fall back to ".md" and "notion.so".
func NewRewriter(cfg types.RewriteConfig) *Rewriter {
	cfg = cfg.WithDefaults()
	ext := regexp.QuoteMeta(cfg.DocumentExt)
	return &Rewriter{
		docExt:     cfg.DocumentExt,
		platformRe: regexp.MustCompile(`\[([^\]]+)\]\((https://[^)]*` + regexp.QuoteMeta(cfg.HostToken) + `[^)]*)\)`),
		cellRe:     regexp.MustCompile(`(?i)\.\./[^,\n\r]*` + ext),
	}
}

// Rewrite applies the platform URL, asset, and document passes, in that
// order, to content.
func (rw *Rewriter) Rewrite(content string) Result {
	var edits []Edit
	spans := []span{{text: content}}

	spans = applyPass(spans, rw.platformRe, PassPlatformURL, rw.platformLink, &edits)
	spans = applyPass(spans, assetLinkRe, PassAsset, rw.assetLink, &edits)
	spans = applyPass(spans, documentLinkRe, PassDocument, rw.documentLink, &edits)

	return Result{Content: joinSpans(spans), Edits: edits}
}

// platformLink turns [text](https://www.notion.so/Some-Page-<id>) into
// [[Some Page]]. The last hyphen-separated token of the final URL segment is
// taken to be the identifier.
func (rw *Rewriter) platformLink(m []string) (string, Outcome) {
	u := m[2]
	last := u[strings.LastIndex(u, "/")+1:]
	tokens := strings.Split(last, "-")
	title := strings.TrimSpace(strings.Join(tokens[:len(tokens)-1], " "))
	if title == "" {
		return m[0], OutcomeUnresolved
	}
	return "[[" + title + "]]", OutcomeRewritten
}

// assetLink cleans every segment of an image or embed path.
func (rw *Rewriter) assetLink(m []string) (string, Outcome) {
	alt, target := m[1], m[2]
	if IsURL(target) {
		return m[0], OutcomePassThrough
	}
	parts := names.SplitClean(unescape(target))
	if len(parts) == 0 {
		return m[0], OutcomeUnresolved
	}
	return "![" + alt + "](" + strings.Join(parts, "/") + ")", OutcomeRewritten
}

// documentLink turns [text](Page <id>.md) into [[Page]] or [[Page|text]].
func (rw *Rewriter) documentLink(m []string) (string, Outcome) {
	text, target := m[1], m[2]
	if IsURL(target) {
		return m[0], OutcomePassThrough
	}
	target = unescape(target)
	if !rw.isDocument(target) {
		return m[0], OutcomePassThrough
	}
	title := rw.Title(target)
	if title == "" {
		return m[0], OutcomeUnresolved
	}
	if strings.EqualFold(text, title) {
		return "[[" + title + "]]", OutcomeRewritten
	}
	return "[[" + title + "|" + text + "]]", OutcomeRewritten
}

// RewriteCell rewrites the bare relative document references ("../dir/Page
// <id>.md") that table cells contain into [[Page]]. It is narrower than
// Rewrite: no aliases, no URLs, no assets.
func (rw *Rewriter) RewriteCell(cell string) Result {
	var edits []Edit
	spans := applyPass([]span{{text: cell}}, rw.cellRe, PassCell, rw.cellLink, &edits)
	return Result{Content: joinSpans(spans), Edits: edits}
}

func (rw *Rewriter) cellLink(m []string) (string, Outcome) {
	title := rw.Title(unescape(m[0]))
	if title == "" {
		return m[0], OutcomeUnresolved
	}
	return "[[" + title + "]]", OutcomeRewritten
}

// Title derives the cross-reference title of a document path: the file name
// without extension, with its identifier and illegal characters removed.
func (rw *Rewriter) Title(target string) string {
	return names.Normalize(names.Stem(target))
}

func (rw *Rewriter) isDocument(target string) bool {
	return len(target) >= len(rw.docExt) &&
		strings.EqualFold(target[len(target)-len(rw.docExt):], rw.docExt)
}

// IsURL reports whether a link target is absolute: it carries a protocol
// separator or starts with an IPv4 address.
func IsURL(target string) bool {
	return strings.Contains(target, "://") || ipv4PrefixRe.MatchString(target)
}

// unescape percent-decodes s. Malformed escapes are kept literally and
// decoded bytes that are not valid UTF-8 are replaced with U+FFFD.
func unescape(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return strings.ToValidUTF8(d, "\ufffd")
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if d, err := url.PathUnescape(s[i : i+3]); err == nil {
				b.WriteString(d)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "\ufffd")
}
