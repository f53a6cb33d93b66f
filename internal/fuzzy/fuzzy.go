// Package fuzzy implements the longest-common-subsequence-based string
// similarity used by the Dedup Resolver (C11) to score candidate matches.
//
// No library in the retrieval pack implements this exact ratio (Python's
// difflib.SequenceMatcher.ratio() family) — this is a deliberate
// standard-library-only component; see the grounding ledger.
package fuzzy

import (
	"strings"
	"unicode/utf8"
)

// Ratio returns the LCS-based similarity of a and b, normalized to [0, 1]:
// 2*len(LCS(a, b)) / (len(a) + len(b)). Both inputs are lowercased and
// trimmed first. An empty pair (both strings empty after trimming) scores 0,
// matching the Dedup Resolver's convention that missing operands contribute
// zero rather than a vacuous perfect match.
func Ratio(a, b string) float64 {
	a = strings.TrimSpace(strings.ToLower(a))
	b = strings.TrimSpace(strings.ToLower(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	lcs := lcsLength(a, b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(lcs) / float64(total)
}

// lcsLength computes the length of the longest common subsequence of two
// strings via the standard O(len(a)*len(b)) dynamic program, operating on
// runes to handle accented Portuguese text correctly.
func lcsLength(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 || m == 0 {
		return 0
	}

	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}

// JaccardWords computes the Jaccard similarity of the whitespace-delimited,
// lowercased word sets of a and b: |A∩B| / |A∪B|. Used by the Content
// Reconciler (C3) for paragraph and meta-tag deduplication. Two empty sets
// score 0.
func JaccardWords(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
