// Package identity normalizes person names and decides when two spellings
// refer to the same child.
package identity

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the similarity a name must reach to collapse into an
// earlier canonical spelling.
const DefaultThreshold = 0.85

// Clean decomposes accents, upper-cases, drops everything outside A-Z and
// space, and collapses runs of spaces.
func Clean(name string) string {
	upper := strings.ToUpper(norm.NFKD.String(name))

	var b strings.Builder
	b.Grow(len(upper))
	space := false
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case r == ' ':
			space = true
		}
	}
	return b.String()
}

// Matcher implements exact identity matching and near-duplicate collapse.
type Matcher struct {
	similarity Similarity
	threshold  float64
}

// NewMatcher creates a Matcher. A nil similarity uses the Levenshtein ratio; a
// non-positive threshold uses DefaultThreshold.
func NewMatcher(similarity Similarity, threshold float64) *Matcher {
	if similarity == nil {
		similarity = LevenshteinSimilarity{}
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{similarity: similarity, threshold: threshold}
}

// NewMatcherFor builds a Matcher from configuration values.
func NewMatcherFor(algorithm string, threshold float64) (*Matcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("similarity threshold must be within [0, 1], got %v", threshold)
	}
	sim, err := NewSimilarity(algorithm)
	if err != nil {
		return nil, err
	}
	return NewMatcher(sim, threshold), nil
}

// Threshold returns the collapse threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Key returns the comparison key of a name. Two names match exactly when
// their keys are equal.
func (m *Matcher) Key(name string) string {
	return Clean(name)
}

// Matches reports whether the cleaned names have the same tokens in the same
// order. "JOHN SMITH" does not match "SMITH JOHN".
func (m *Matcher) Matches(a, b string) bool {
	ta := strings.Fields(Clean(a))
	tb := strings.Fields(Clean(b))
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

// CanonicalMap clusters distinct names in first-seen order. Each name maps to
// the first earlier canonical name whose similarity clears the threshold, or
// to itself when none does.
func (m *Matcher) CanonicalMap(names []string) map[string]string {
	mapping := make(map[string]string, len(names))
	var canonicals []string

	for _, name := range names {
		if _, seen := mapping[name]; seen {
			continue
		}
		target := name
		for _, c := range canonicals {
			if m.similarity.Ratio(name, c) >= m.threshold {
				target = c
				break
			}
		}
		if target == name {
			canonicals = append(canonicals, name)
		}
		mapping[name] = target
	}
	return mapping
}
