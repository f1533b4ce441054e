package resolver

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnvern/pkg/chunker"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/genus"
	"github.com/gnames/gnvern/pkg/namefmt"
	"github.com/gnames/gnvern/pkg/ranker"
	"github.com/gnames/gnvern/pkg/rescache"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/gnames/gnvern/pkg/taxonomy"
	"golang.org/x/sync/errgroup"
)

// logThreshold is the smallest batch that gets logged.
const logThreshold = 10

type resolver struct {
	cfg    *config.Config
	store  store.Store
	ranker ranker.Ranker
	cache  *rescache.Cache
}

// New creates a Resolver that reads candidates from s.
func New(cfg *config.Config, s store.Store) Resolver {
	rc := cfg.Resolver
	return &resolver{
		cfg:    cfg,
		store:  s,
		ranker: ranker.New(rc.PriorityMin, rc.PriorityMax, rc.PriorityDefault),
		cache:  rescache.New(),
	}
}

func (r *resolver) ResolveBatch(
	ctx context.Context,
	names, langs []string,
	opts ...Option,
) (vernacular.Result, error) {
	return r.resolve(ctx, names, r.languages(langs), r.options(opts))
}

func (r *resolver) ResolveSingle(
	ctx context.Context,
	name string,
	langs []string,
	opts ...Option,
) (vernacular.Record, error) {
	res, err := r.ResolveBatch(ctx, []string{name}, langs, opts...)
	if err != nil {
		return vernacular.Record{}, err
	}
	rec, ok := res[strings.TrimSpace(name)]
	if !ok {
		return vernacular.Record{}, MissingRecordError(name)
	}
	return rec, nil
}

func (r *resolver) Walk(
	ctx context.Context,
	names, langs []string,
	fn func(vernacular.Record) error,
	opts ...Option,
) error {
	o := r.options(opts)
	o.skipCache = true
	return r.walk(ctx, UniqueNames(names), r.languages(langs), o, fn)
}

func (r *resolver) ClearCache() {
	r.cache.Clear()
}

func (r *resolver) CacheStats() rescache.Stats {
	return r.cache.Stats()
}

func (r *resolver) options(opts []Option) options {
	o := options{
		genusFallback: r.cfg.Resolver.LookupGenera,
		formatNames:   r.cfg.Resolver.FormatNames,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (r *resolver) languages(langs []string) []string {
	res := config.NormalizeLanguages(langs)
	if len(res) == 0 {
		res = config.NormalizeLanguages(r.cfg.Resolver.Languages)
	}
	return res
}

// resolve accumulates records of a walk into a result, using the cache
// when it is allowed.
func (r *resolver) resolve(
	ctx context.Context,
	names, langs []string,
	o options,
) (vernacular.Result, error) {
	names = UniqueNames(names)
	if len(names) == 0 {
		return vernacular.Result{}, nil
	}

	compute := func() (vernacular.Result, error) {
		res := make(vernacular.Result, len(names))
		err := r.walk(ctx, names, langs, o, func(rec vernacular.Record) error {
			if _, ok := res[rec.Name]; ok {
				return DuplicateNameError(rec.Name)
			}
			res[rec.Name] = rec
			return nil
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	}

	if o.skipCache {
		return compute()
	}
	key := o.signature(langs) + rescache.Key(names)
	return r.cache.Do(key, compute)
}

// walk processes chunks of sorted unique names. Chunks are queried in
// parallel in groups of JobsNumber, records are delivered in the order of
// names.
func (r *resolver) walk(
	ctx context.Context,
	names, langs []string,
	o options,
	fn func(vernacular.Record) error,
) error {
	chunks := chunker.Chunk(names, r.cfg.Resolver.ChunkSize)
	jobs := max(r.cfg.JobsNumber, 1)
	total := len(names)
	if total >= logThreshold {
		slog.Info("Resolving vernacular names",
			"names", humanize.Comma(int64(total)),
			"chunks", len(chunks),
			"languages", strings.Join(langs, ","),
		)
	}

	var done int
	for _, window := range chunker.Chunk(chunks, jobs) {
		if err := ctx.Err(); err != nil {
			return err
		}

		recs := make([][]vernacular.Record, len(window))
		g, gctx := errgroup.WithContext(ctx)
		for i, chunk := range window {
			g.Go(func() error {
				res, err := r.resolveChunk(gctx, chunk, langs, o)
				if err != nil {
					return err
				}
				recs[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, chunkRecs := range recs {
			for _, rec := range chunkRecs {
				if err := fn(rec); err != nil {
					return err
				}
			}
			done += len(chunkRecs)
		}
		if o.progress != nil {
			o.progress(done, total)
		}
	}

	if total >= logThreshold {
		slog.Info("Resolved vernacular names",
			"names", humanize.Comma(int64(total)))
	}
	return nil
}

// resolveChunk makes one store request for all names and languages of a
// chunk and builds a record for every name.
func (r *resolver) resolveChunk(
	ctx context.Context,
	chunk, langs []string,
	o options,
) ([]vernacular.Record, error) {
	cands, err := r.query(ctx, chunk, langs, o)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]vernacular.Candidate, len(chunk))
	for _, c := range cands {
		byName[c.QueryName] = append(byName[c.QueryName], c)
	}

	res := make([]vernacular.Record, len(chunk))
	for i, name := range chunk {
		res[i] = r.record(name, byName[name], langs, o)
	}

	if !o.skipHigher {
		if err = r.higherNames(ctx, res, langs, o); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *resolver) query(
	ctx context.Context,
	chunk, langs []string,
	o options,
) ([]vernacular.Candidate, error) {
	if t := r.cfg.Store.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t)*time.Second)
		defer cancel()
	}
	return r.store.Candidates(ctx, store.Query{
		Names:      chunk,
		Languages:  langs,
		WithGenera: o.genusFallback,
		AllMatches: o.allMatches,
	})
}

func (r *resolver) record(
	name string,
	cands []vernacular.Candidate,
	langs []string,
	o options,
) vernacular.Record {
	res := vernacular.Record{
		Name:     name,
		Taxonomy: taxonomy.Aggregate(name, cands),
		Names:    make(map[string][]vernacular.Name, len(langs)),
	}

	byLang := make(map[string][]vernacular.Candidate)
	for _, c := range cands {
		byLang[c.Lang] = append(byLang[c.Lang], c)
	}

	onEmpty := r.cfg.Resolver.GenusOnEmptyName
	for _, lang := range langs {
		sel := genus.Select(name, byLang[lang], o.genusFallback, onEmpty)
		var ranked []vernacular.Candidate
		if o.allMatches {
			ranked = r.ranker.Rank(sel)
		} else if best, ok := r.ranker.Best(sel); ok {
			ranked = []vernacular.Candidate{best}
		}
		names := make([]vernacular.Name, 0, len(ranked))
		for _, c := range ranked {
			names = append(names, r.name(name, c, o))
		}
		res.Names[lang] = names
	}
	return res
}

func (r *resolver) name(
	sciName string,
	c vernacular.Candidate,
	o options,
) vernacular.Name {
	cname := c.CommonName
	if o.formatNames {
		cname = namefmt.FormatLang(cname, c.Lang)
	}
	return vernacular.Name{
		ScientificName: sciName,
		MatchedName:    c.MatchedName,
		Lang:           c.Lang,
		CommonName:     cname,
		Sources:        c.Sources,
		Priority:       r.ranker.Priority(c.Priority),
		Corroboration:  c.Corroboration,
		UpdatedAt:      c.UpdatedAt,
		URLs:           c.URLs,
		SourceURLs:     c.SourceURLs,
		Uninomial:      c.Uninomial,
		Indirect: !strings.EqualFold(
			strings.TrimSpace(c.MatchedName),
			strings.TrimSpace(sciName),
		),
	}
}

// higherNames resolves class, order and family tokens of all records of a
// chunk with one more batch. The nested batch never looks up higher
// taxonomy, so the recursion is exactly one level deep. It uses the cache
// only when the outer call does.
func (r *resolver) higherNames(
	ctx context.Context,
	recs []vernacular.Record,
	langs []string,
	o options,
) error {
	hts := make([]vernacular.HigherTaxonomy, len(recs))
	for i := range recs {
		hts[i] = recs[i].Taxonomy
	}
	tokens := taxonomy.Tokens(hts...)
	if len(tokens) == 0 {
		return nil
	}

	nested := o
	nested.skipHigher = true
	nested.allMatches = false
	nested.progress = nil

	res, err := r.resolve(ctx, tokens, langs, nested)
	if err != nil {
		return err
	}

	for i := range recs {
		rec := &recs[i]
		if rec.Taxonomy.IsEmpty() {
			continue
		}
		for _, lang := range langs {
			ht := taxonomy.Names(rec.Taxonomy, func(token string) string {
				n, ok := res[token].Best(lang)
				if !ok {
					return ""
				}
				return n.CommonName
			})
			if ht.IsEmpty() {
				continue
			}
			if rec.HigherNames == nil {
				rec.HigherNames = make(map[string]vernacular.HigherTaxonomy)
			}
			rec.HigherNames[lang] = ht
			for j := range rec.Names[lang] {
				rec.Names[lang][j].Higher = ht
			}
		}
	}
	return nil
}

// UniqueNames returns the names a batch resolves: trimmed, non-blank,
// sorted and unique. Records of a result are keyed by these names.
func UniqueNames(names []string) []string {
	res := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n == "" {
			continue
		}
		res = append(res, n)
	}
	slices.Sort(res)
	return slices.Compact(res)
}
