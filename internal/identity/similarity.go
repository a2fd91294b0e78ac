package identity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/pmezard/go-difflib/difflib"
)

// Similarity scores two names in [0, 1], 1 meaning identical.
type Similarity interface {
	Ratio(a, b string) float64
}

// Algorithm names accepted by NewSimilarity.
const (
	AlgorithmLevenshtein = "levenshtein"
	AlgorithmSequence    = "sequence"
)

// NewSimilarity returns the named similarity function.
func NewSimilarity(algorithm string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmLevenshtein:
		return LevenshteinSimilarity{}, nil
	case AlgorithmSequence:
		return SequenceSimilarity{}, nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm: %s", algorithm)
	}
}

// LevenshteinSimilarity is one minus the edit distance over the longer
// length. It is symmetric.
type LevenshteinSimilarity struct{}

func (LevenshteinSimilarity) Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// SequenceSimilarity is the matching-blocks ratio 2*M/T computed over the
// characters of both names.
type SequenceSimilarity struct{}

func (SequenceSimilarity) Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
