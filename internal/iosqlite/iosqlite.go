// Package iosqlite implements store.Store and store.MasterList on a local
// SQLite snapshot of the vernacular name tables. It uses the pure Go
// modernc.org/sqlite driver, so no C toolchain is needed.
package iosqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/schema"
	"github.com/gnames/gnvern/pkg/store"
	_ "modernc.org/sqlite"
)

// timeLayouts are formats of timestamps found in snapshots.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Store keeps vernacular names in a SQLite file.
type Store struct {
	db     *sql.DB
	path   string
	tables schema.Tables
}

// New opens the SQLite snapshot configured in cfg.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	tables := schema.DefaultTables()
	if cfg.Store.Table != "" {
		tables.Vernacular = cfg.Store.Table
	}
	if cfg.Store.MasterListTable != "" {
		tables.MasterList = cfg.Store.MasterListTable
	}
	return Open(ctx, cfg.Store.SQLitePath, tables)
}

// Open opens or creates a SQLite file.
func Open(ctx context.Context, path string, tables schema.Tables) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	return &Store{db: db, path: path, tables: tables}, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Init creates tables and indexes if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	for _, ddl := range schema.SQLiteDDL(s.tables) {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return QueryError(s.path, err)
		}
	}
	return nil
}

// AddNames inserts vernacular names in one transaction.
func (s *Store) AddNames(ctx context.Context, names []schema.VernacularName) error {
	q := fmt.Sprintf(`INSERT INTO %s
	(scname, lang, cmname, source, source_priority, url, source_url,
	 tax_class, tax_order, tax_family, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quote(s.tables.Vernacular))

	return s.insert(ctx, q, len(names), func(stmt *sql.Stmt, i int) error {
		n := names[i]
		var updated sql.NullString
		if n.UpdatedAt.Valid {
			updated = sql.NullString{
				String: n.UpdatedAt.Time.UTC().Format(time.RFC3339), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			n.Scname, n.Lang, n.Cmname, n.Source, n.SourcePriority,
			n.URL, n.SourceURL, n.TaxClass, n.TaxOrder, n.TaxFamily,
			n.CreatedAt.UTC().Format(time.RFC3339), updated,
		)
		return err
	})
}

// AddMaster inserts master list entries in one transaction.
func (s *Store) AddMaster(ctx context.Context, entries []schema.MasterListEntry) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (dataset, scientificname, family) VALUES (?, ?, ?)",
		quote(s.tables.MasterList))

	return s.insert(ctx, q, len(entries), func(stmt *sql.Stmt, i int) error {
		e := entries[i]
		_, err := stmt.ExecContext(ctx, e.Dataset, e.Scientificname, e.Family)
		return err
	})
}

func (s *Store) insert(
	ctx context.Context,
	q string,
	count int,
	exec func(*sql.Stmt, int) error,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QueryError(s.path, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return QueryError(s.path, err)
	}
	defer stmt.Close()

	for i := range count {
		if err = exec(stmt, i); err != nil {
			return QueryError(s.path, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return QueryError(s.path, err)
	}
	return nil
}

// Candidates implements store.Store.
func (s *Store) Candidates(
	ctx context.Context,
	q store.Query,
) ([]vernacular.Candidate, error) {
	if len(q.Names) == 0 || len(q.Languages) == 0 {
		return nil, nil
	}

	query, args := s.candidatesSQL(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, QueryError(s.path, err)
	}
	defer rows.Close()

	var res []store.Row
	for rows.Next() {
		var r store.Row
		var prio sql.NullInt64
		var updated string
		err = rows.Scan(
			&r.QueryName, &r.MatchedName, &r.Lang, &r.CommonName,
			&r.Source, &prio, &r.URL, &r.SourceURL, &updated,
			&r.Class, &r.Order, &r.Family, &r.MasterFamily,
		)
		if err != nil {
			return nil, ScanError(s.path, err)
		}
		if prio.Valid {
			p := int(prio.Int64)
			r.Priority = &p
		}
		r.UpdatedAt = parseTime(updated)
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(s.path, err)
	}

	return store.Group(res), nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) candidatesSQL(q store.Query) (string, []any) {
	vt := quote(s.tables.Vernacular)
	mt := quote(s.tables.MasterList)

	keys, genera := store.MatchKeys(q.Names)
	args := make([]any, 0, len(q.Names)*3+len(q.Languages))
	values := make([]string, len(q.Names))
	for i, name := range q.Names {
		values[i] = "(?, ?, ?)"
		args = append(args, name, keys[i], genera[i])
	}
	langs := make([]string, len(q.Languages))
	for i, l := range q.Languages {
		langs[i] = "?"
		args = append(args, strings.ToLower(l))
	}

	cols := `q.qname, q.qlc, v.scname, v.lang, v.cmname, v.source,
		v.source_priority, v.url, v.source_url, v.created_at, v.updated_at,
		v.tax_class, v.tax_order, v.tax_family`

	var sb strings.Builder
	fmt.Fprintf(&sb, "WITH q(qname, qlc, glc) AS (VALUES %s),\n",
		strings.Join(values, ", "))
	fmt.Fprintf(&sb,
		"matched AS (\n\tSELECT %s\n\tFROM q JOIN %s v ON lower(v.scname) = q.qlc",
		cols, vt)
	if q.WithGenera {
		fmt.Fprintf(&sb,
			"\n\tUNION ALL\n\tSELECT %s\n\tFROM q JOIN %s v "+
				"ON lower(v.scname) = q.glc WHERE q.glc <> q.qlc",
			cols, vt)
	}
	fmt.Fprintf(&sb, `
)
SELECT m.qname, m.scname, lower(m.lang), COALESCE(m.cmname, ''),
	COALESCE(m.source, ''), m.source_priority,
	COALESCE(m.url, ''), COALESCE(m.source_url, ''),
	COALESCE(m.updated_at, m.created_at, ''),
	COALESCE(m.tax_class, ''), COALESCE(m.tax_order, ''),
	COALESCE(m.tax_family, ''), COALESCE(ml.family, '')
FROM matched m
LEFT JOIN %s ml
	ON lower(ml.scientificname) = m.qlc
	OR lower(substr(ml.scientificname, 1,
		instr(ml.scientificname || ' ', ' ') - 1)) = m.qlc
WHERE lower(m.lang) IN (%s)
ORDER BY m.qname, m.scname, m.lang`, mt, strings.Join(langs, ", "))

	return sb.String(), args
}

// Datasets implements store.MasterList.
func (s *Store) Datasets(ctx context.Context) ([]store.Dataset, error) {
	q := fmt.Sprintf(
		"SELECT COALESCE(dataset, ''), count(*) FROM %s GROUP BY 1",
		quote(s.tables.MasterList))

	var res []store.Dataset
	err := s.collect(ctx, q, nil, func(rows *sql.Rows) error {
		var d store.Dataset
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return err
		}
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
func (s *Store) DatasetNames(
	ctx context.Context,
	dataset string,
) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT scientificname FROM %s
	WHERE COALESCE(dataset, '') = ? AND scientificname IS NOT NULL
	ORDER BY scientificname`, quote(s.tables.MasterList))

	var res []string
	err := s.collect(ctx, q, []any{dataset}, func(rows *sql.Rows) error {
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

// Search implements store.MasterList. Matching uses instr, so the text
// needs no escaping.
func (s *Store) Search(ctx context.Context, text string) ([]store.Match, error) {
	text = store.SearchText(text)
	if text == "" {
		return nil, nil
	}
	q := fmt.Sprintf(`SELECT DISTINCT v.scname, COALESCE(v.cmname, '')
	FROM %s ml
	JOIN %s v ON lower(v.scname) = lower(ml.scientificname)
	WHERE instr(lower(v.scname), ?) > 0
		OR instr(lower(COALESCE(v.cmname, '')), ?) > 0`,
		quote(s.tables.MasterList), quote(s.tables.Vernacular))

	var pairs []store.SearchPair
	err := s.collect(ctx, q, []any{text, text}, func(rows *sql.Rows) error {
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

func (s *Store) collect(
	ctx context.Context,
	q string,
	args []any,
	scan func(*sql.Rows) error,
) error {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return QueryError(s.path, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return ScanError(s.path, err)
		}
	}
	if err = rows.Err(); err != nil {
		return QueryError(s.path, err)
	}
	return nil
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// quote quotes a possibly schema-qualified table name.
func quote(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
