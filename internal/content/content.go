// Package content implements the Content Reconciler (C3): it runs two
// body-extraction passes over raw HTML, merges their paragraphs, splices in
// meta-tag summaries, and resolves a publication date.
package content

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/bodyextract"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/dateutil"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/fuzzy"
)

// minParagraphLen is the fallback single-line split's minimum paragraph
// length.
const minParagraphLen = 20

// signatureLen is the number of leading characters used to build a
// paragraph's dedup signature.
const signatureLen = 100

// jaccardParagraphThreshold drops a secondary paragraph whose Jaccard
// word-set similarity to any primary paragraph exceeds this value.
const jaccardParagraphThreshold = 0.70

// jaccardMetaThreshold gates whether a meta description is distinct enough
// from the merged body to be worth prepending.
const jaccardMetaThreshold = 0.60

// minMetaTokens is the minimum word count for a meta description to be
// considered.
const minMetaTokens = 10

// minBlockingWordsForJaccard is the minimum word count a primary paragraph
// must have before it's compared by Jaccard similarity.
const minBlockingWordsForJaccard = 5

// Reconciled is the output of Reconcile: body text, metadata, and a
// resolved publication date.
type Reconciled struct {
	Body            string
	Metadata        map[string]string
	PublicationDate *time.Time
}

// Reconciler runs the dual-pass extraction-and-merge algorithm. Failure of
// the reconciler never raises to its caller — it degrades instead.
type Reconciler struct {
	extractor bodyextract.Extractor
	logger    *zap.Logger
	minYear   int
}

// New builds a Reconciler backed by extractor.
func New(extractor bodyextract.Extractor, minYear int, logger *zap.Logger) *Reconciler {
	return &Reconciler{extractor: extractor, logger: logger, minYear: minYear}
}

// Reconcile runs the full merge algorithm. On any internal
// failure it degrades through: precision-only body, then an empty result —
// it never panics or returns an error.
func (r *Reconciler) Reconcile(html []byte) (result Reconciled) {
	var bodies bodyextract.Bodies
	defer func() {
		if rec := recover(); rec != nil {
			if r.logger != nil {
				r.logger.Warn("content reconciler panicked, degrading to precision-only body", zap.Any("recover", rec))
			}
			result = Reconciled{Body: bodies.Primary, Metadata: bodies.Metadata}
		}
	}()

	bodies, err := r.extractor.ExtractBodies(html)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("body extraction failed", zap.Error(err))
		}
		return Reconciled{}
	}
	if bodies.Primary == "" && bodies.Inclusive == "" {
		return Reconciled{}
	}

	merged := mergeParagraphs(splitParagraphs(bodies.Primary), splitParagraphs(bodies.Inclusive))
	body := strings.Join(merged, "\n\n")

	body = spliceMetaDescriptions(body, bodyextract.MetaDescriptions(html))

	var pubDate *time.Time
	if dateStr, ok := bodies.Metadata["date"]; ok && dateStr != "" {
		if parsed, err := dateutil.Parse(dateStr, r.minYear, time.Now().UTC()); err == nil {
			pubDate = &parsed
		}
	}

	return Reconciled{Body: body, Metadata: bodies.Metadata, PublicationDate: pubDate}
}

// splitParagraphs splits text on blank-line boundaries, falling back to
// single-line splits with a minimum length of 20 characters when no blank
// lines are present.
func splitParagraphs(text string) []string {
	if strings.Contains(text, "\n\n") {
		var out []string
		for _, p := range strings.Split(text, "\n\n") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	var out []string
	for _, p := range strings.Split(text, "\n") {
		p = strings.TrimSpace(p)
		if len(p) >= minParagraphLen {
			out = append(out, p)
		}
	}
	return out
}

// signature returns the lowercased, trimmed first 100 characters of a
// paragraph, used for exact dedup matching.
func signature(p string) string {
	p = strings.TrimSpace(strings.ToLower(p))
	runes := []rune(p)
	if len(runes) > signatureLen {
		runes = runes[:signatureLen]
	}
	return strings.TrimSpace(string(runes))
}

// mergeParagraphs merges secondary paragraphs into primary: for every
// secondary paragraph, drop it if its signature exactly matches a primary
// paragraph, or if its Jaccard similarity to any sufficiently long primary
// paragraph exceeds the threshold; otherwise append it. The merged list
// preserves primary order, with secondary additions at the end, and never
// produces a result shorter than primary.
func mergeParagraphs(primary, secondary []string) []string {
	primarySignatures := make(map[string]struct{}, len(primary))
	for _, p := range primary {
		primarySignatures[signature(p)] = struct{}{}
	}

	merged := append([]string{}, primary...)
	for _, p := range secondary {
		sig := signature(p)
		if _, dup := primarySignatures[sig]; dup {
			continue
		}

		isDuplicate := false
		for _, primP := range primary {
			if wordCount(primP) < minBlockingWordsForJaccard {
				continue
			}
			if fuzzy.JaccardWords(p, primP) > jaccardParagraphThreshold {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			merged = append(merged, p)
		}
	}
	return merged
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// spliceMetaDescriptions splices meta descriptions into the body: for each
// meta string with ≥10 tokens, prepend it (blank-line separated) to the body when no
// sentence in the body exceeds 0.60 Jaccard similarity to it and the meta
// string is not already a substring of the body. Meta strings are prepended
// in input order, so the first one accepted ends up closest to the body and
// later ones end up above it.
func spliceMetaDescriptions(body string, metaTexts []string) string {
	for _, meta := range metaTexts {
		if wordCount(meta) < minMetaTokens {
			continue
		}
		if strings.Contains(body, meta) {
			continue
		}

		tooSimilar := false
		for _, sentence := range strings.Split(body, ".") {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) < minParagraphLen {
				continue
			}
			if fuzzy.JaccardWords(sentence, meta) > jaccardMetaThreshold {
				tooSimilar = true
				break
			}
		}
		if !tooSimilar {
			if body == "" {
				body = meta
			} else {
				body = meta + "\n\n" + body
			}
		}
	}
	return body
}
