// Package store defines the contract between the resolution engine and
// a backend that keeps vernacular names. Implementations live in
// internal/io* packages and in the memstore subpackage.
package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

// Query is one batched request to a store.
type Query struct {
	// Names is one chunk of scientific names. QueryName of every returned
	// candidate is one of these strings, case preserved.
	Names []string

	// Languages are lower-case codes of languages of interest.
	Languages []string

	// WithGenera adds rows matched by the genus of every name.
	WithGenera bool

	// AllMatches asks for every candidate instead of the best ones.
	// Stores in this module always return every candidate and leave
	// selection to the ranker.
	AllMatches bool
}

// Store provides candidate vernacular names for batches of scientific
// names.
//
// For every name in Query.Names a store returns candidates whose matched
// name equals the name (case-insensitive) or, if Query.WithGenera is set,
// equals the first word of the name. Candidates carry class, order and
// family of the matched name together with families that the master list
// keeps for the queried name.
type Store interface {
	// Candidates runs one batched request. Any failure of the backend
	// is returned as an error, partial results are never returned.
	Candidates(ctx context.Context, q Query) ([]vernacular.Candidate, error)

	// Close releases resources of the store.
	Close() error
}

// MatchKeys returns the keys a backend matches names by: trimmed
// lower-case names and lower-case genera as vernacular.Genus finds them.
func MatchKeys(names []string) (nameKeys, genusKeys []string) {
	nameKeys = make([]string, len(names))
	genusKeys = make([]string, len(names))
	for i, n := range names {
		nameKeys[i] = strings.ToLower(strings.TrimSpace(n))
		genusKeys[i] = strings.ToLower(vernacular.Genus(n))
	}
	return nameKeys, genusKeys
}

// Row is a raw, ungrouped record as adapters read it from a backend.
type Row struct {
	QueryName    string
	MatchedName  string
	Lang         string
	CommonName   string
	Source       string
	Priority     *int
	URL          string
	SourceURL    string
	UpdatedAt    time.Time
	Class        string
	Order        string
	Family       string
	MasterFamily string
}

type groupKey struct {
	query, matched, lang, name string
}

type group struct {
	cand     vernacular.Candidate
	sources  map[string]struct{}
	corrob   map[string]struct{}
	urls     map[string]struct{}
	srcURLs  map[string]struct{}
	classes  map[string]struct{}
	orders   map[string]struct{}
	families map[string]struct{}
}

// Group aggregates raw rows into candidates, one per query name, matched
// name, language and common name. Sources, links and taxonomy are unioned,
// priority and timestamp keep their maximum, corroboration counts distinct
// case-insensitive sources. The output order is deterministic.
func Group(rows []Row) []vernacular.Candidate {
	groups := make(map[groupKey]*group)
	var keys []groupKey

	for _, r := range rows {
		name := strings.TrimSpace(gnlib.FixUtf8(r.CommonName))
		matched := strings.TrimSpace(r.MatchedName)
		lang := strings.ToLower(strings.TrimSpace(r.Lang))
		k := groupKey{
			query:   r.QueryName,
			matched: strings.ToLower(matched),
			lang:    lang,
			name:    name,
		}

		g, ok := groups[k]
		if !ok {
			g = &group{
				cand: vernacular.Candidate{
					QueryName:   r.QueryName,
					MatchedName: matched,
					Lang:        lang,
					CommonName:  name,
					Uninomial:   vernacular.IsUninomial(matched),
				},
				sources:  make(map[string]struct{}),
				corrob:   make(map[string]struct{}),
				urls:     make(map[string]struct{}),
				srcURLs:  make(map[string]struct{}),
				classes:  make(map[string]struct{}),
				orders:   make(map[string]struct{}),
				families: make(map[string]struct{}),
			}
			groups[k] = g
			keys = append(keys, k)
		}

		if src := strings.TrimSpace(gnlib.FixUtf8(r.Source)); src != "" {
			g.sources[src] = struct{}{}
			g.corrob[strings.ToLower(src)] = struct{}{}
		}
		if r.Priority != nil {
			if g.cand.Priority == nil || *r.Priority > *g.cand.Priority {
				p := *r.Priority
				g.cand.Priority = &p
			}
		}
		if r.UpdatedAt.After(g.cand.UpdatedAt) {
			g.cand.UpdatedAt = r.UpdatedAt
		}
		addToken(g.urls, r.URL, false)
		addToken(g.srcURLs, r.SourceURL, false)
		addToken(g.classes, r.Class, true)
		addToken(g.orders, r.Order, true)
		addToken(g.families, r.Family, true)
		addToken(g.families, r.MasterFamily, true)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.query != b.query {
			return a.query < b.query
		}
		if a.lang != b.lang {
			return a.lang < b.lang
		}
		if a.matched != b.matched {
			return a.matched < b.matched
		}
		return a.name < b.name
	})

	res := make([]vernacular.Candidate, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		c := g.cand
		c.Sources = sortedKeys(g.sources)
		c.Corroboration = len(g.corrob)
		c.URLs = sortedKeys(g.urls)
		c.SourceURLs = sortedKeys(g.srcURLs)
		c.Classes = sortedKeys(g.classes)
		c.Orders = sortedKeys(g.orders)
		c.Families = sortedKeys(g.families)
		res = append(res, c)
	}
	return res
}

func addToken(set map[string]struct{}, s string, lower bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if lower {
		s = strings.ToLower(s)
	}
	set[s] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	res := make([]string, 0, len(set))
	for k := range set {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
