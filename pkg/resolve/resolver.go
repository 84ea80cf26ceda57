// Package resolve maps user-typed habitat names to canonical node names.
//
// Matching is case-insensitive. When no name matches exactly, the closest
// name is accepted if its similarity ratio is at least Cutoff. The ratio is
// difflib's Ratcliff/Obershelp measure over Unicode code points:
//
//	ratio = 2*M / (len(a) + len(b))
//
// where M is the total size of the matching blocks found by recursively
// taking the longest common substring.
package resolve

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Cutoff is the minimum similarity ratio a fuzzy match must reach
const Cutoff = 0.8

// Resolver looks up names against a fixed set of canonical names
type Resolver struct {
	canonical map[string]string // lower-cased -> first canonical name seen
	lowered   []string          // distinct lower-cased names, first-seen order
	cutoff    float64
}

// New indexes names, which must be in a stable order. When several names
// share a lower-cased form the first one wins.
func New(names []string) *Resolver {
	r := &Resolver{
		canonical: make(map[string]string, len(names)),
		cutoff:    Cutoff,
	}
	for _, name := range names {
		key := strings.ToLower(name)
		if _, dup := r.canonical[key]; dup {
			continue
		}
		r.canonical[key] = name
		r.lowered = append(r.lowered, key)
	}
	return r
}

// Match is a fuzzy match candidate
type Match struct {
	Name  string  // canonical name
	Score float64 // similarity ratio in [0,1]
}

// Resolve returns the canonical name for input, or false if nothing is
// close enough
func (r *Resolver) Resolve(input string) (string, bool) {
	key := strings.ToLower(input)
	if name, ok := r.canonical[key]; ok {
		return name, true
	}

	matches := r.Suggest(input, 1)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name, true
}

// Suggest returns up to n names whose similarity to input reaches the
// cutoff, best first. Equal scores are ordered by descending lower-cased
// name, as difflib.get_close_matches ranks (score, name) pairs.
func (r *Resolver) Suggest(input string, n int) []Match {
	if n <= 0 {
		return nil
	}

	m := difflib.NewMatcher(nil, runes(strings.ToLower(input)))
	var matches []scored
	for _, candidate := range r.lowered {
		m.SetSeq1(runes(candidate))
		// Cheap upper bounds first, as difflib.get_close_matches does
		if m.RealQuickRatio() < r.cutoff || m.QuickRatio() < r.cutoff {
			continue
		}
		if score := m.Ratio(); score >= r.cutoff {
			matches = append(matches, scored{key: candidate, score: score})
		}
	}

	slices.SortFunc(matches, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(b.key, a.key)
	})
	if len(matches) > n {
		matches = matches[:n]
	}

	out := make([]Match, len(matches))
	for i, s := range matches {
		out[i] = Match{Name: r.canonical[s.key], Score: s.score}
	}
	return out
}

type scored struct {
	key   string
	score float64
}

// Ratio returns the similarity of a and b in [0,1]. It is case-sensitive.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per code point, the sequence unit difflib
// compares
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
