package store

import (
	"context"
	"sort"
	"strings"

	"github.com/gnames/gnlib"
)

// Dataset is a named part of the master list.
type Dataset struct {
	// Name is the dataset name as it is written in the master list.
	Name string `json:"name"`

	// Count is the number of master list rows of the dataset.
	Count int `json:"count"`
}

// Match is a master list name found by a text search.
type Match struct {
	// ScientificName is the name as the vernacular table keeps it.
	ScientificName string `json:"scientificName"`

	// CommonNames are vernacular names of ScientificName that contain
	// the searched text. It is empty when only the scientific name
	// contains the text.
	CommonNames []string `json:"commonNames,omitempty"`
}

// MasterList is implemented by stores that keep the master list of
// scientific names split into datasets.
type MasterList interface {
	// Datasets returns all datasets, the largest first.
	Datasets(ctx context.Context) ([]Dataset, error)

	// DatasetNames returns sorted unique scientific names of a dataset.
	DatasetNames(ctx context.Context, dataset string) ([]string, error)

	// Search finds master list names that have vernacular names and
	// whose scientific name or one of the vernacular names contains the
	// text, ignoring case. Matches are sorted by scientific name.
	Search(ctx context.Context, text string) ([]Match, error)
}

// SearchPair is one (scientific name, vernacular name) row found by a
// search.
type SearchPair struct {
	ScientificName string
	CommonName     string
}

// SearchText normalizes the text of a search. An empty result means
// there is nothing to search for.
func SearchText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// SortDatasets orders datasets by count, larger first, then by name.
func SortDatasets(ds []Dataset) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Count != ds[j].Count {
			return ds[i].Count > ds[j].Count
		}
		return ds[i].Name < ds[j].Name
	})
}

// GroupMatches turns rows found for a normalized text into matches.
// Vernacular names are kept only if they contain the text.
func GroupMatches(text string, pairs []SearchPair) []Match {
	names := make(map[string]map[string]struct{})
	for _, p := range pairs {
		sci := strings.TrimSpace(p.ScientificName)
		if sci == "" {
			continue
		}
		set, ok := names[sci]
		if !ok {
			set = make(map[string]struct{})
			names[sci] = set
		}
		cn := strings.TrimSpace(gnlib.FixUtf8(p.CommonName))
		if cn != "" && strings.Contains(strings.ToLower(cn), text) {
			set[cn] = struct{}{}
		}
	}

	res := make([]Match, 0, len(names))
	for sci, set := range names {
		res = append(res, Match{
			ScientificName: sci,
			CommonNames:    sortedKeys(set),
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].ScientificName < res[j].ScientificName
	})
	return res
}
