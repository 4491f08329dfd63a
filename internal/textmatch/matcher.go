// Package textmatch grades free-typed answers against a reference answer.
// It is deliberately forgiving: answers that reorder or abbreviate the
// reference pass, answers missing most of its substantive words do not.
package textmatch

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

const (
	// A reference keyword counts as matched by a near-miss input token when
	// their Levenshtein similarity reaches this (one typo in a short word).
	fuzzyKeywordThreshold = 0.75
	// Minimum token length on both sides for fuzzy keyword matching.
	fuzzyKeywordMinLen = 3

	keywordCoverageThreshold = 0.8
	textSimilarityThreshold  = 0.7
)

// Stop words removed before keyword comparison: articles, auxiliary verbs
// and common prepositions/conjunctions/pronouns.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"am": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
	"do": {}, "does": {}, "did": {},
	"has": {}, "have": {}, "had": {},
	"will": {}, "would": {}, "shall": {}, "should": {},
	"can": {}, "could": {}, "may": {}, "might": {}, "must": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "into": {}, "about": {},
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {}, "if": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {},
}

type Result struct {
	IsCorrect  bool    `json:"isCorrect"`
	Similarity float64 `json:"similarity"`
}

// Match compares a typed answer against the reference answer. It never
// fails; degenerate input produces a similarity in [0, 1] like anything else.
func Match(input, reference string) Result {
	in := normalize(input)
	ref := normalize(reference)

	if in == ref {
		return Result{IsCorrect: true, Similarity: 1.0}
	}

	textSim := similarity(in, ref)

	refKeywords := keywords(ref)
	if len(refKeywords) == 0 {
		// Nothing substantive to compare word-by-word; the whole string
		// decides.
		return Result{
			IsCorrect:  textSim >= textSimilarityThreshold,
			Similarity: textSim,
		}
	}

	inKeywords := keywords(in)
	matched := 0
	for _, rk := range refKeywords {
		if keywordMatched(rk, inKeywords) {
			matched++
		}
	}
	coverage := float64(matched) / float64(len(refKeywords))

	sim := coverage
	if textSim > sim {
		sim = textSim
	}
	return Result{
		IsCorrect:  coverage >= keywordCoverageThreshold || textSim >= textSimilarityThreshold,
		Similarity: sim,
	}
}

func keywordMatched(ref string, inputs []string) bool {
	for _, ik := range inputs {
		if ik == ref {
			return true
		}
		if len([]rune(ik)) >= fuzzyKeywordMinLen && len([]rune(ref)) >= fuzzyKeywordMinLen &&
			similarity(ik, ref) >= fuzzyKeywordThreshold {
			return true
		}
	}
	return false
}

// normalize lower-cases, strips punctuation and collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func keywords(normalized string) []string {
	var kws []string
	for _, tok := range strings.Fields(normalized) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len([]rune(tok)) <= 1 {
			continue
		}
		kws = append(kws, tok)
	}
	return kws
}

// similarity is 1 - editDistance/maxLen, in [0, 1].
func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}
