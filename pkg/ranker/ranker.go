// Package ranker orders candidate vernacular names of one scientific name
// in one language from the most to the least preferable.
package ranker

import (
	"slices"
	"strings"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

// Ranker sorts candidates. Its zero value is not useful, use New.
type Ranker struct {
	min, max, def int
}

// New creates a Ranker with bounds of valid source priorities and the
// priority given to candidates with missing or invalid ones.
func New(minPriority, maxPriority, defaultPriority int) Ranker {
	return Ranker{min: minPriority, max: maxPriority, def: defaultPriority}
}

// Priority returns a normalized priority. Missing values and values
// outside of the [min, max] range become the default.
func (r Ranker) Priority(p *int) int {
	if p == nil || *p < r.min || *p > r.max {
		return r.def
	}
	return *p
}

// Rank returns a sorted copy of candidates. The order is:
//
//  1. multi-word matched names before uninomials;
//  2. higher priority first;
//  3. higher corroboration first;
//  4. more recent update first;
//  5. common name in lexicographic order.
//
// Matched name and joined sources break the remaining ties, so the
// result does not depend on the order of the input.
func (r Ranker) Rank(cands []vernacular.Candidate) []vernacular.Candidate {
	res := slices.Clone(cands)
	slices.SortStableFunc(res, r.compare)
	return res
}

// Best returns the top ranked candidate.
func (r Ranker) Best(
	cands []vernacular.Candidate,
) (vernacular.Candidate, bool) {
	if len(cands) == 0 {
		return vernacular.Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if r.compare(c, best) < 0 {
			best = c
		}
	}
	return best, true
}

func (r Ranker) compare(a, b vernacular.Candidate) int {
	if a.Uninomial != b.Uninomial {
		if b.Uninomial {
			return -1
		}
		return 1
	}
	if pa, pb := r.Priority(a.Priority), r.Priority(b.Priority); pa != pb {
		return pb - pa
	}
	if a.Corroboration != b.Corroboration {
		return b.Corroboration - a.Corroboration
	}
	if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(a.CommonName, b.CommonName); c != 0 {
		return c
	}
	if c := strings.Compare(a.MatchedName, b.MatchedName); c != 0 {
		return c
	}
	return strings.Compare(
		strings.Join(a.Sources, "|"),
		strings.Join(b.Sources, "|"),
	)
}
