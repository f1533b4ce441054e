// Package iopgstore implements store.Store on top of PostgreSQL tables
// created by `gnvern create`. It is an impure I/O package.
package iopgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gnvern/internal/iodb"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/db"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/schema"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgstore struct {
	op     db.Operator
	vern   string
	master string
	query  string
}

// New connects to PostgreSQL and returns a store that reads vernacular
// names from it. The store also implements store.MasterList.
func New(ctx context.Context, cfg *config.Config) (store.Store, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}
	return NewWithOperator(op, cfg), nil
}

// NewWithOperator creates a store that uses an already connected
// operator. Closing the store closes the operator.
func NewWithOperator(op db.Operator, cfg *config.Config) store.Store {
	vern := cfg.Store.Table
	if vern == "" {
		vern = schema.VernacularTable
	}
	master := cfg.Store.MasterListTable
	if master == "" {
		master = schema.MasterListTable
	}
	return &pgstore{
		op:     op,
		vern:   sanitize(vern),
		master: sanitize(master),
		query:  candidatesSQL(vern, master),
	}
}

// Candidates implements store.Store.
func (s *pgstore) Candidates(
	ctx context.Context,
	q store.Query,
) ([]vernacular.Candidate, error) {
	if len(q.Names) == 0 || len(q.Languages) == 0 {
		return nil, nil
	}
	pool := s.op.Pool()
	if pool == nil {
		return nil, iodb.NotConnectedError()
	}

	langs := make([]string, len(q.Languages))
	for i, l := range q.Languages {
		langs[i] = strings.ToLower(l)
	}

	keys, genera := store.MatchKeys(q.Names)
	rows, err := pool.Query(ctx, s.query,
		q.Names, keys, genera, langs, q.WithGenera)
	if err != nil {
		return nil, QueryError(len(q.Names), err)
	}
	defer rows.Close()

	var res []store.Row
	for rows.Next() {
		var r store.Row
		var prio *int32
		var updated *time.Time
		err = rows.Scan(
			&r.QueryName, &r.MatchedName, &r.Lang, &r.CommonName,
			&r.Source, &prio, &r.URL, &r.SourceURL, &updated,
			&r.Class, &r.Order, &r.Family, &r.MasterFamily,
		)
		if err != nil {
			return nil, ScanError(err)
		}
		if prio != nil {
			p := int(*prio)
			r.Priority = &p
		}
		if updated != nil {
			r.UpdatedAt = *updated
		}
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(len(q.Names), err)
	}

	return store.Group(res), nil
}

// Close implements store.Store.
func (s *pgstore) Close() error {
	return s.op.Close()
}

// candidatesSQL builds the query. Parameters: $1 names, $2 their match
// keys, $3 match keys of their genera, $4 languages, $5 whether to add
// rows matched by genus.
func candidatesSQL(vern, master string) string {
	vt := sanitize(vern)
	mt := sanitize(master)
	return fmt.Sprintf(`
WITH q AS (
	SELECT DISTINCT qname, qlc, glc
	FROM unnest($1::text[], $2::text[], $3::text[]) AS t(qname, qlc, glc)
), matched AS (
	SELECT q.qname, q.qlc, v.*
	FROM q JOIN %[1]s v ON lower(v.scname) = q.qlc
	UNION ALL
	SELECT q.qname, q.qlc, v.*
	FROM q JOIN %[1]s v ON lower(v.scname) = q.glc
	WHERE $5::boolean AND q.glc <> q.qlc
)
SELECT m.qname, m.scname, lower(m.lang), COALESCE(m.cmname, ''),
	COALESCE(m.source, ''), m.source_priority,
	COALESCE(m.url, ''), COALESCE(m.source_url, ''),
	COALESCE(m.updated_at, m.created_at),
	COALESCE(m.tax_class, ''), COALESCE(m.tax_order, ''),
	COALESCE(m.tax_family, ''), COALESCE(ml.family, '')
FROM matched m
LEFT JOIN %[2]s ml
	ON lower(ml.scientificname) = m.qlc
	OR lower(split_part(ml.scientificname, ' ', 1)) = m.qlc
WHERE lower(m.lang) = ANY($4::text[])
ORDER BY m.qname, m.scname, m.lang`, vt, mt)
}

// Datasets implements store.MasterList.
func (s *pgstore) Datasets(ctx context.Context) ([]store.Dataset, error) {
	q := fmt.Sprintf(`
SELECT COALESCE(dataset, ''), count(*)
FROM %s
GROUP BY 1`, s.master)

	var res []store.Dataset
	err := s.collect(ctx, q, nil, func(rows pgx.Rows) error {
		var d store.Dataset
		var count int64
		if err := rows.Scan(&d.Name, &count); err != nil {
			return err
		}
		d.Count = int(count)
		res = append(res, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	store.SortDatasets(res)
	return res, nil
}

// DatasetNames implements store.MasterList.
func (s *pgstore) DatasetNames(
	ctx context.Context,
	dataset string,
) ([]string, error) {
	q := fmt.Sprintf(`
SELECT DISTINCT scientificname
FROM %s
WHERE COALESCE(dataset, '') = $1 AND scientificname IS NOT NULL
ORDER BY scientificname`, s.master)

	var res []string
	err := s.collect(ctx, q, []any{dataset}, func(rows pgx.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		res = append(res, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Search implements store.MasterList.
func (s *pgstore) Search(
	ctx context.Context,
	text string,
) ([]store.Match, error) {
	text = store.SearchText(text)
	if text == "" {
		return nil, nil
	}
	q := fmt.Sprintf(`
SELECT DISTINCT v.scname, COALESCE(v.cmname, '')
FROM %s ml
JOIN %s v ON lower(v.scname) = lower(ml.scientificname)
WHERE strpos(lower(v.scname), $1) > 0
	OR strpos(lower(v.cmname), $1) > 0`, s.master, s.vern)

	var pairs []store.SearchPair
	err := s.collect(ctx, q, []any{text}, func(rows pgx.Rows) error {
		var p store.SearchPair
		if err := rows.Scan(&p.ScientificName, &p.CommonName); err != nil {
			return err
		}
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store.GroupMatches(text, pairs), nil
}

// collect runs a master list query and hands every row to scan.
func (s *pgstore) collect(
	ctx context.Context,
	q string,
	args []any,
	scan func(pgx.Rows) error,
) error {
	pool := s.op.Pool()
	if pool == nil {
		return iodb.NotConnectedError()
	}

	rows, err := pool.Query(ctx, q, args...)
	if err != nil {
		return MasterListError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return ScanError(err)
		}
	}
	if err = rows.Err(); err != nil {
		return MasterListError(err)
	}
	return nil
}

// sanitize quotes a possibly schema-qualified table name.
func sanitize(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// diagnostic extracts the text PostgreSQL reported about a failure.
func diagnostic(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code)
	}
	return err.Error()
}
