package digest

import "strings"

// admissionThreshold is the similarity score at or above which a new
// description is considered a duplicate of the last accepted one.
const admissionThreshold = 0.8

// Similarity scores how alike two descriptions are, in [0,1].
type Similarity interface {
	Score(a, b string) float64
}

// TokenSetSimilarity measures normalized token-set overlap (Jaccard index
// over lowercased whitespace-separated tokens). Identical strings score 1.
type TokenSetSimilarity struct{}

func (TokenSetSimilarity) Score(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,!?;:\"'()[]")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

// Deduplicator filters a timestamp-ordered stream of descriptions, keeping
// only those sufficiently different from the most recently kept one. One
// instance per pipeline run; not safe for concurrent use.
type Deduplicator struct {
	sim          Similarity
	lastAccepted string
}

func NewDeduplicator(sim Similarity) *Deduplicator {
	if sim == nil {
		sim = TokenSetSimilarity{}
	}
	return &Deduplicator{sim: sim}
}

// Admit reports whether desc should be kept. The first description is
// always admitted; later ones only when their similarity to the last
// admitted description is strictly below the threshold.
func (d *Deduplicator) Admit(desc string) bool {
	if d.lastAccepted == "" {
		d.lastAccepted = desc
		return true
	}
	if d.sim.Score(desc, d.lastAccepted) < admissionThreshold {
		d.lastAccepted = desc
		return true
	}
	return false
}
