// Package resolver finds vernacular names for batches of scientific names
// in several languages. It queries a name store in chunks, ranks the
// candidates, falls back to genus names, collects higher taxonomy and
// memoizes results.
package resolver

import (
	"context"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/rescache"
)

// Resolver is the batch resolution engine. It is safe for concurrent use.
type Resolver interface {
	// ResolveBatch resolves a set of names. Names are trimmed and
	// duplicates are removed (see UniqueNames), an empty set gives an
	// empty result. Empty langs means the configured
	// languages of interest. A store failure aborts the whole batch.
	ResolveBatch(
		ctx context.Context,
		names, langs []string,
		opts ...Option,
	) (vernacular.Result, error)

	// ResolveSingle resolves one name through the same machinery as
	// ResolveBatch.
	ResolveSingle(
		ctx context.Context,
		name string,
		langs []string,
		opts ...Option,
	) (vernacular.Record, error)

	// Walk resolves names and sends records to fn in sorted order of
	// names, one chunk at a time. The cache is neither read nor written,
	// including lookups of higher taxa. An error from fn stops the walk
	// and is returned.
	Walk(
		ctx context.Context,
		names, langs []string,
		fn func(vernacular.Record) error,
		opts ...Option,
	) error

	// ClearCache removes all memoized results.
	ClearCache()

	// CacheStats returns cache usage statistics.
	CacheStats() rescache.Stats
}
