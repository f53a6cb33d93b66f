// Package bodyextract defines the opaque body-extraction capability (spec
// §1: "the HTML fetcher and body-extraction library"), plus a concrete
// goquery-backed adapter so the Content Reconciler has something real to
// run against in this codebase.
package bodyextract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Bodies is the extractor's three-way output: a precision pass, an
// inclusive (recall-favored, comments-included) pass, and raw metadata
// key/value pairs (e.g. "date").
type Bodies struct {
	Primary   string
	Inclusive string
	Metadata  map[string]string
}

// Extractor is the opaque ExtractBodies(bytes) → {primary, inclusive,
// metadata} capability.
type Extractor interface {
	ExtractBodies(html []byte) (Bodies, error)
}

// GoqueryExtractor is a minimal concrete Extractor built on goquery. The
// "precision" pass strips <script>, <style>, <aside>, <nav>, <footer>,
// <header>, and comment-like elements before reading paragraph/heading
// text; the "inclusive" pass keeps everything but <script>/<style>,
// approximating trafilatura's favor_recall mode with include_comments
// toggled between the two passes.
type GoqueryExtractor struct{}

// NewGoqueryExtractor builds the default Extractor.
func NewGoqueryExtractor() *GoqueryExtractor {
	return &GoqueryExtractor{}
}

var stripAlwaysSelectors = []string{"script", "style"}
var stripPrecisionSelectors = []string{"aside", "nav", "footer", "header", ".comments", "#comments", ".comment"}

func (e *GoqueryExtractor) ExtractBodies(html []byte) (Bodies, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return Bodies{}, err
	}

	primary := extractText(doc, stripAlwaysSelectors, stripPrecisionSelectors)
	inclusive := extractText(doc, stripAlwaysSelectors, nil)
	meta := extractMetadata(doc)

	return Bodies{Primary: primary, Inclusive: inclusive, Metadata: meta}, nil
}

func extractText(doc *goquery.Document, always, extra []string) string {
	clone := doc.Clone()
	for _, sel := range always {
		clone.Find(sel).Remove()
	}
	for _, sel := range extra {
		clone.Find(sel).Remove()
	}

	var parts []string
	clone.Find("p, h1, h2, h3, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func extractMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	if dateStr, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content"); ok {
		meta["date"] = dateStr
	} else if dateStr, ok := doc.Find(`time[datetime]`).First().Attr("datetime"); ok {
		meta["date"] = dateStr
	}
	return meta
}

// MetaDescriptions returns the three description-like meta tags the
// Content Reconciler splices in, in priority order:
// name="description", property="og:description", name="twitter:description".
func MetaDescriptions(html []byte) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(sel string, attr string) {
		val, ok := doc.Find(sel).First().Attr(attr)
		if !ok {
			return
		}
		val = strings.TrimSpace(val)
		if val == "" {
			return
		}
		if _, dup := seen[val]; dup {
			return
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	add(`meta[name="description"]`, "content")
	add(`meta[property="og:description"]`, "content")
	add(`meta[name="twitter:description"]`, "content")
	return out
}
