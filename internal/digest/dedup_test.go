package digest

import (
	"reflect"
	"testing"
)

// exactSimilarity returns 1.0 for identical strings and 0.0 otherwise.
type exactSimilarity struct{}

func (exactSimilarity) Score(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

func TestDeduplicatorExactMatches(t *testing.T) {
	d := NewDeduplicator(exactSimilarity{})

	var accepted []string
	for _, desc := range []string{"a cat sits", "a cat sits", "a dog runs"} {
		if d.Admit(desc) {
			accepted = append(accepted, desc)
		}
	}

	want := []string{"a cat sits", "a dog runs"}
	if !reflect.DeepEqual(accepted, want) {
		t.Errorf("accepted = %v, want %v", accepted, want)
	}
}

func TestDeduplicatorFirstAlwaysAdmitted(t *testing.T) {
	d := NewDeduplicator(TokenSetSimilarity{})
	if !d.Admit("anything at all") {
		t.Error("first description must be admitted unconditionally")
	}
}

// The reference behavior this must not regress: identical consecutive
// descriptions are always discarded after the first, even with the real
// similarity measure (not the disabled stub the design replaced).
func TestDeduplicatorIdenticalConsecutiveWithRealMeasure(t *testing.T) {
	d := NewDeduplicator(TokenSetSimilarity{})
	if !d.Admit("a red car on a street") {
		t.Fatal("first description rejected")
	}
	if d.Admit("a red car on a street") {
		t.Error("identical consecutive description was admitted")
	}
	if !d.Admit("two people in a kitchen cooking") {
		t.Error("clearly different description was rejected")
	}
}

func TestTokenSetSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "a cat sits", "a cat sits", 1.0, 1.0},
		{"disjoint", "red car highway", "blue ocean waves", 0.0, 0.0},
		{"case and punctuation insensitive", "A cat sits.", "a cat sits", 1.0, 1.0},
		{"partial overlap", "a cat sits on a mat", "a dog sits on a mat", 0.5, 0.9},
		{"both empty", "", "", 1.0, 1.0},
		{"one empty", "words here", "", 0.0, 0.0},
	}

	sim := TokenSetSimilarity{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sim.Score(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Score(%q, %q) = %v, want in [%v, %v]", tt.a, tt.b, got, tt.min, tt.max)
			}
			if sym := sim.Score(tt.b, tt.a); sym != got {
				t.Errorf("Score not symmetric: %v vs %v", got, sym)
			}
		})
	}
}
