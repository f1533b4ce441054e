// Package memstore keeps vernacular names in memory and serves them
// through the store.Store interface. It is used by tests and by callers
// that load a small name list at runtime.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/store"
)

// Entry is one vernacular name row of the store.
type Entry struct {
	Name       string
	Lang       string
	CommonName string
	Source     string
	Priority   *int
	URL        string
	SourceURL  string
	UpdatedAt  time.Time
	Class      string
	Order      string
	Family     string
}

// MasterEntry is one row of the master list, it attaches a family to a
// scientific name and places the name into a dataset.
type MasterEntry struct {
	Dataset string
	Name    string
	Family  string
}

// MemStore is a concurrency-safe in-memory implementation of store.Store
// and store.MasterList.
type MemStore struct {
	mu      sync.RWMutex
	entries []Entry
	master  []MasterEntry
	queries []store.Query
	fail    error
}

// New creates a MemStore with the given entries.
func New(entries []Entry, master ...MasterEntry) *MemStore {
	res := &MemStore{}
	res.entries = append(res.entries, entries...)
	res.master = append(res.master, master...)
	return res
}

// Add appends vernacular name entries.
func (m *MemStore) Add(entries ...Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
}

// AddMaster appends master list entries.
func (m *MemStore) AddMaster(master ...MasterEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = append(m.master, master...)
}

// SetFailure makes every following store call return err.
// A nil err restores normal behavior.
func (m *MemStore) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Calls returns the number of Candidates calls so far.
func (m *MemStore) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queries)
}

// Queries returns copies of all queries received so far.
func (m *MemStore) Queries() []store.Query {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]store.Query, len(m.queries))
	for i, q := range m.queries {
		q.Names = append([]string(nil), q.Names...)
		q.Languages = append([]string(nil), q.Languages...)
		res[i] = q
	}
	return res
}

// Candidates implements store.Store.
func (m *MemStore) Candidates(
	ctx context.Context,
	q store.Query,
) ([]vernacular.Candidate, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	fail := m.fail
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if fail != nil {
		return nil, fail
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	langs := make(map[string]struct{}, len(q.Languages))
	for _, l := range q.Languages {
		langs[strings.ToLower(l)] = struct{}{}
	}

	var rows []store.Row
	for _, name := range q.Names {
		nameLow := strings.ToLower(strings.TrimSpace(name))
		genusLow := strings.ToLower(vernacular.Genus(name))
		families := m.masterFamilies(nameLow)

		for _, e := range m.entries {
			if _, ok := langs[strings.ToLower(e.Lang)]; !ok {
				continue
			}
			matched := strings.ToLower(strings.TrimSpace(e.Name))
			isDirect := matched == nameLow
			isGenus := q.WithGenera && matched == genusLow
			if !isDirect && !isGenus {
				continue
			}
			rows = append(rows, entryRows(name, e, families)...)
		}
	}
	return store.Group(rows), nil
}

// Close implements store.Store.
func (m *MemStore) Close() error {
	return nil
}

// Datasets implements store.MasterList.
func (m *MemStore) Datasets(ctx context.Context) ([]store.Dataset, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, me := range m.master {
		counts[me.Dataset]++
	}
	res := make([]store.Dataset, 0, len(counts))
	for name, count := range counts {
		res = append(res, store.Dataset{Name: name, Count: count})
	}
	store.SortDatasets(res)
	return res, nil
}

// DatasetNames implements store.MasterList.
func (m *MemStore) DatasetNames(
	ctx context.Context,
	dataset string,
) ([]string, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var res []string
	for _, me := range m.master {
		if me.Dataset == dataset {
			res = append(res, me.Name)
		}
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

// Search implements store.MasterList.
func (m *MemStore) Search(
	ctx context.Context,
	text string,
) ([]store.Match, error) {
	text = store.SearchText(text)
	if text == "" {
		return nil, nil
	}
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	master := make(map[string]struct{}, len(m.master))
	for _, me := range m.master {
		master[strings.ToLower(strings.TrimSpace(me.Name))] = struct{}{}
	}

	var pairs []store.SearchPair
	for _, e := range m.entries {
		low := strings.ToLower(strings.TrimSpace(e.Name))
		if _, ok := master[low]; !ok {
			continue
		}
		if strings.Contains(low, text) ||
			strings.Contains(strings.ToLower(e.CommonName), text) {
			pairs = append(pairs, store.SearchPair{
				ScientificName: e.Name,
				CommonName:     e.CommonName,
			})
		}
	}
	return store.GroupMatches(text, pairs), nil
}

func (m *MemStore) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fail
}

// masterFamilies returns families of master list entries whose name
// or genus equals the query name.
func (m *MemStore) masterFamilies(nameLow string) []string {
	var res []string
	for _, me := range m.master {
		low := strings.ToLower(strings.TrimSpace(me.Name))
		if low == nameLow || strings.ToLower(vernacular.Genus(low)) == nameLow {
			res = append(res, me.Family)
		}
	}
	return res
}

func entryRows(query string, e Entry, families []string) []store.Row {
	row := store.Row{
		QueryName:   query,
		MatchedName: e.Name,
		Lang:        e.Lang,
		CommonName:  e.CommonName,
		Source:      e.Source,
		Priority:    e.Priority,
		URL:         e.URL,
		SourceURL:   e.SourceURL,
		UpdatedAt:   e.UpdatedAt,
		Class:       e.Class,
		Order:       e.Order,
		Family:      e.Family,
	}
	if len(families) == 0 {
		return []store.Row{row}
	}
	res := make([]store.Row, len(families))
	for i, f := range families {
		res[i] = row
		res[i].MasterFamily = f
	}
	return res
}
