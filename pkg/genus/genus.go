// Package genus decides when vernacular names of a genus may stand in for
// a species that has no vernacular names of its own.
package genus

import (
	"strings"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

// Split separates candidates of a name into the ones matched by the name
// itself and the ones matched by its genus. Candidates matched by
// anything else are dropped. A uninomial has no genus-level candidates.
func Split(
	name string,
	cands []vernacular.Candidate,
) (direct, genus []vernacular.Candidate) {
	name = strings.TrimSpace(name)
	gen := vernacular.Genus(name)
	multi := !vernacular.IsUninomial(name)

	for _, c := range cands {
		switch {
		case strings.EqualFold(c.MatchedName, name):
			direct = append(direct, c)
		case multi && strings.EqualFold(c.MatchedName, gen):
			genus = append(genus, c)
		}
	}
	return direct, genus
}

// Select returns candidates usable for a name in one language.
//
// Candidates without a common name are never usable. Direct candidates
// win when any of them has a name. Genus candidates are used when
// fallback is allowed and there are no direct candidates at all. With
// onEmpty set they are also used when all direct candidates lack a name.
func Select(
	name string,
	cands []vernacular.Candidate,
	allowFallback, onEmpty bool,
) []vernacular.Candidate {
	direct, genus := Split(name, cands)

	usable := named(direct)
	if len(usable) > 0 {
		return usable
	}
	if !allowFallback {
		return nil
	}
	if len(direct) > 0 && !onEmpty {
		return nil
	}
	return named(genus)
}

func named(cands []vernacular.Candidate) []vernacular.Candidate {
	var res []vernacular.Candidate
	for _, c := range cands {
		if strings.TrimSpace(c.CommonName) != "" {
			res = append(res, c)
		}
	}
	return res
}
