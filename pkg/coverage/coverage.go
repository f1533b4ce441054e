// Package coverage summarizes how well a set of scientific names is
// covered by vernacular names in each language.
package coverage

import (
	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

// LangCoverage counts names of one language by the kind of their best
// match.
type LangCoverage struct {
	// Lang is the language code.
	Lang string `json:"lang"`

	// Name is the display name of the language, if known.
	Name string `json:"name,omitempty"`

	// AsSpecies is the number of names matched directly.
	AsSpecies int `json:"asSpecies"`

	// AsGenus is the number of names matched through their genus.
	AsGenus int `json:"asGenus"`

	// Unmatched is the number of names without a vernacular name.
	Unmatched int `json:"unmatched"`
}

// Total returns the number of counted names.
func (lc LangCoverage) Total() int {
	return lc.AsSpecies + lc.AsGenus + lc.Unmatched
}

// SpeciesPercent returns the share of direct matches.
func (lc LangCoverage) SpeciesPercent() float64 {
	return percent(lc.AsSpecies, lc.Total())
}

// GenusPercent returns the share of genus matches.
func (lc LangCoverage) GenusPercent() float64 {
	return percent(lc.AsGenus, lc.Total())
}

// UnmatchedPercent returns the share of names without a match.
func (lc LangCoverage) UnmatchedPercent() float64 {
	return percent(lc.Unmatched, lc.Total())
}

// Report is the coverage of a set of names in several languages.
type Report struct {
	// Dataset is the master list dataset the names came from, empty for
	// names given by a user.
	Dataset string `json:"dataset,omitempty"`

	// Names is the number of resolved names.
	Names int `json:"names"`

	// Langs keeps coverage per language in the order of languages.
	Langs []LangCoverage `json:"langs"`
}

// Summarize counts matches of a resolution result per language.
// The display argument maps language codes to their names, it can be nil.
func Summarize(
	res vernacular.Result,
	langs []string,
	display map[string]string,
) Report {
	rep := Report{
		Names: len(res),
		Langs: make([]LangCoverage, len(langs)),
	}
	for i, lang := range langs {
		lc := LangCoverage{Lang: lang, Name: display[lang]}
		for _, rec := range res {
			best, ok := rec.Best(lang)
			switch {
			case !ok:
				lc.Unmatched++
			case best.Indirect:
				lc.AsGenus++
			default:
				lc.AsSpecies++
			}
		}
		rep.Langs[i] = lc
	}
	return rep
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
