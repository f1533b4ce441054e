// Package vernacular contains entities of vernacular name resolution:
// raw candidates returned by a name store, resolved names, higher
// taxonomy sets and per-name resolution records.
package vernacular

import (
	"slices"
	"strings"
	"time"
)

// Candidate is one grouped row returned by a name store for a query name.
// It is ephemeral: built per query, discarded after ranking.
type Candidate struct {
	// QueryName is the scientific name as it was sent to the store.
	QueryName string

	// MatchedName is the scientific name found on the row. It is either
	// the query name or, for genus fallback, the genus of the query name.
	MatchedName string

	// Lang is a lower-case language code.
	Lang string

	// CommonName is the vernacular name. Empty string means no name.
	CommonName string

	// Sources are unique contributing sources, sorted.
	Sources []string

	// Corroboration is the number of distinct (case-insensitive) sources
	// that agree on the (name, language, common name) triple.
	Corroboration int

	// Priority is the highest source priority of the group, nil if none
	// of the rows had one.
	Priority *int

	// UpdatedAt is the most recent update or creation time of the group.
	UpdatedAt time.Time

	// URLs and SourceURLs are unique non-empty links, sorted.
	URLs       []string
	SourceURLs []string

	// Classes, Orders and Families are lower-case higher taxonomy tokens
	// attached to the matched name. Families include master list families.
	Classes  []string
	Orders   []string
	Families []string

	// Uninomial is true if MatchedName has no internal whitespace.
	Uninomial bool
}

// HigherTaxonomy keeps class, order and family values of a taxon.
// Each slice is sorted and has unique values.
type HigherTaxonomy struct {
	Class  []string `json:"class,omitempty"`
	Order  []string `json:"order,omitempty"`
	Family []string `json:"family,omitempty"`
}

// IsEmpty returns true if no higher taxonomy is known.
func (ht HigherTaxonomy) IsEmpty() bool {
	return len(ht.Class) == 0 && len(ht.Order) == 0 && len(ht.Family) == 0
}

// Clone returns a copy of ht that shares no slices with it.
func (ht HigherTaxonomy) Clone() HigherTaxonomy {
	return HigherTaxonomy{
		Class:  slices.Clone(ht.Class),
		Order:  slices.Clone(ht.Order),
		Family: slices.Clone(ht.Family),
	}
}

// Name is a resolved vernacular name of a scientific name in one language.
type Name struct {
	// ScientificName is the name that was queried.
	ScientificName string `json:"scientificName"`

	// MatchedName is the name the common name belongs to.
	MatchedName string `json:"matchedName"`

	Lang       string `json:"lang"`
	CommonName string `json:"commonName"`

	Sources       []string  `json:"sources,omitempty"`
	Priority      int       `json:"priority"`
	Corroboration int       `json:"corroboration"`
	UpdatedAt     time.Time `json:"updatedAt"`
	URLs          []string  `json:"urls,omitempty"`
	SourceURLs    []string  `json:"sourceUrls,omitempty"`

	// Uninomial is true when the matched name is a single word.
	Uninomial bool `json:"uninomial"`

	// Indirect is true when the name came from genus fallback.
	Indirect bool `json:"indirect"`

	// Higher contains vernacular names of higher taxa in the same
	// language, if such lookups were requested.
	Higher HigherTaxonomy `json:"higher"`
}

// Clone returns a copy of n that shares no slices with it.
func (n Name) Clone() Name {
	n.Sources = slices.Clone(n.Sources)
	n.URLs = slices.Clone(n.URLs)
	n.SourceURLs = slices.Clone(n.SourceURLs)
	n.Higher = n.Higher.Clone()
	return n
}

// Record is the resolution outcome for one scientific name.
type Record struct {
	// Name is the scientific name as it was given, without surrounding
	// whitespace.
	Name string `json:"name"`

	// Taxonomy is the higher taxonomy found in candidate rows.
	Taxonomy HigherTaxonomy `json:"taxonomy"`

	// Names contains resolved names per language. Every requested
	// language has a key. An empty slice means there is no match,
	// best-match mode keeps at most one name.
	Names map[string][]Name `json:"names"`

	// HigherNames contains vernacular names of higher taxa per language
	// when higher taxonomy lookups are enabled.
	HigherNames map[string]HigherTaxonomy `json:"higherNames,omitempty"`
}

// Clone returns a deep copy of r. Changes to the copy never reach r.
func (r Record) Clone() Record {
	r.Taxonomy = r.Taxonomy.Clone()
	if r.Names != nil {
		names := make(map[string][]Name, len(r.Names))
		for lang, ns := range r.Names {
			cp := slices.Clone(ns)
			for i := range cp {
				cp[i] = cp[i].Clone()
			}
			names[lang] = cp
		}
		r.Names = names
	}
	if r.HigherNames != nil {
		higher := make(map[string]HigherTaxonomy, len(r.HigherNames))
		for lang, ht := range r.HigherNames {
			higher[lang] = ht.Clone()
		}
		r.HigherNames = higher
	}
	return r
}

// Best returns the top ranked name for a language.
func (r Record) Best(lang string) (Name, bool) {
	names := r.Names[strings.ToLower(lang)]
	if len(names) == 0 {
		return Name{}, false
	}
	return names[0], true
}

// Result maps scientific names to their resolution records.
type Result map[string]Record

// Clone returns a deep copy of res.
func (res Result) Clone() Result {
	if res == nil {
		return nil
	}
	cp := make(Result, len(res))
	for k, rec := range res {
		cp[k] = rec.Clone()
	}
	return cp
}

// Genus returns the first whitespace-delimited token of a name.
// Uninomials and empty strings are returned unchanged.
func Genus(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.IndexFunc(name, isSpace); idx > 0 {
		return name[:idx]
	}
	return name
}

// IsUninomial returns true if a name has no internal whitespace.
func IsUninomial(name string) bool {
	return strings.IndexFunc(strings.TrimSpace(name), isSpace) < 0
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
