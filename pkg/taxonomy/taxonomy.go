// Package taxonomy collects class, order and family tokens attached to
// candidate rows of a scientific name.
package taxonomy

import (
	"slices"
	"strings"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

// Aggregate returns the union of higher taxonomy tokens of all candidates,
// regardless of their language. Tokens are lower-cased, deduplicated and
// sorted. A token equal to the name itself is removed, so a family never
// lists itself as its own family.
func Aggregate(
	name string,
	cands []vernacular.Candidate,
) vernacular.HigherTaxonomy {
	self := strings.ToLower(strings.TrimSpace(name))
	cls := make(map[string]struct{})
	ord := make(map[string]struct{})
	fam := make(map[string]struct{})

	for _, c := range cands {
		add(cls, c.Classes, self)
		add(ord, c.Orders, self)
		add(fam, c.Families, self)
	}

	return vernacular.HigherTaxonomy{
		Class:  sorted(cls),
		Order:  sorted(ord),
		Family: sorted(fam),
	}
}

// Tokens returns the sorted union of all tokens of the sets.
func Tokens(hts ...vernacular.HigherTaxonomy) []string {
	set := make(map[string]struct{})
	for _, ht := range hts {
		for _, ss := range [][]string{ht.Class, ht.Order, ht.Family} {
			for _, s := range ss {
				set[s] = struct{}{}
			}
		}
	}
	return sorted(set)
}

// Names maps every token of a set to the value returned by lookup. Tokens
// with an empty lookup result are skipped. The result is sorted and has
// unique values.
func Names(
	ht vernacular.HigherTaxonomy,
	lookup func(token string) string,
) vernacular.HigherTaxonomy {
	conv := func(tokens []string) []string {
		set := make(map[string]struct{})
		for _, t := range tokens {
			if v := lookup(t); v != "" {
				set[v] = struct{}{}
			}
		}
		return sorted(set)
	}
	return vernacular.HigherTaxonomy{
		Class:  conv(ht.Class),
		Order:  conv(ht.Order),
		Family: conv(ht.Family),
	}
}

func add(set map[string]struct{}, tokens []string, self string) {
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || t == self {
			continue
		}
		set[t] = struct{}{}
	}
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
