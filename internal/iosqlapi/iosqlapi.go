// Package iosqlapi implements store.Store and store.MasterList over a
// hosted SQL-over-HTTP endpoint (CartoDB-style SQL API). Every query is
// sent as a form parameter and the answer comes back as JSON rows.
package iosqlapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/schema"
	"github.com/gnames/gnvern/pkg/store"
)

// maxDiagnostic limits the size of a response body kept in errors.
const maxDiagnostic = 2048

type apiRow struct {
	QueryName    string `json:"query_name"`
	MatchedName  string `json:"matched_name"`
	Lang         string `json:"lang"`
	CommonName   string `json:"cmname"`
	Source       string `json:"source"`
	Priority     *int   `json:"priority"`
	URL          string `json:"url"`
	SourceURL    string `json:"source_url"`
	UpdatedAt    string `json:"updated_at"`
	Class        string `json:"tax_class"`
	Order        string `json:"tax_order"`
	Family       string `json:"tax_family"`
	MasterFamily string `json:"master_family"`
}

type apiResponse[T any] struct {
	Rows  []T      `json:"rows"`
	Error []string `json:"error"`
}

type datasetRow struct {
	Dataset string `json:"dataset"`
	Count   int    `json:"count"`
}

type nameRow struct {
	Name string `json:"scientificname"`
}

type searchRow struct {
	ScientificName string `json:"scname"`
	CommonName     string `json:"cmname"`
}

type sqlapi struct {
	endpoint string
	apiKey   string
	vern     string
	master   string
	client   *http.Client
}

// New creates a store that sends queries to cfg.Store.URL.
func New(cfg *config.Config) store.Store {
	return NewWithClient(cfg, &http.Client{
		Timeout: time.Duration(cfg.Store.Timeout) * time.Second,
	})
}

// NewWithClient is New with a custom HTTP client.
func NewWithClient(cfg *config.Config, client *http.Client) store.Store {
	res := &sqlapi{
		endpoint: cfg.Store.URL,
		apiKey:   cfg.Store.APIKey,
		vern:     cfg.Store.Table,
		master:   cfg.Store.MasterListTable,
		client:   client,
	}
	if res.vern == "" {
		res.vern = schema.VernacularTable
	}
	if res.master == "" {
		res.master = schema.MasterListTable
	}
	return res
}

// Candidates implements store.Store.
func (s *sqlapi) Candidates(
	ctx context.Context,
	q store.Query,
) ([]vernacular.Candidate, error) {
	if len(q.Names) == 0 || len(q.Languages) == 0 {
		return nil, nil
	}

	apiRows, err := query[apiRow](ctx, s, s.candidatesSQL(q))
	if err != nil {
		return nil, err
	}

	rows := make([]store.Row, len(apiRows))
	for i, r := range apiRows {
		rows[i] = store.Row{
			QueryName:    r.QueryName,
			MatchedName:  r.MatchedName,
			Lang:         r.Lang,
			CommonName:   r.CommonName,
			Source:       r.Source,
			Priority:     r.Priority,
			URL:          r.URL,
			SourceURL:    r.SourceURL,
			UpdatedAt:    parseTime(r.UpdatedAt),
			Class:        r.Class,
			Order:        r.Order,
			Family:       r.Family,
			MasterFamily: r.MasterFamily,
		}
	}
	return store.Group(rows), nil
}

// Datasets implements store.MasterList.
func (s *sqlapi) Datasets(ctx context.Context) ([]store.Dataset, error) {
	q := fmt.Sprintf(`SELECT COALESCE(dataset, '') AS dataset, count(*) AS count
FROM %s
GROUP BY 1`, s.master)

	rows, err := query[datasetRow](ctx, s, q)
	if err != nil {
		return nil, err
	}
	res := make([]store.Dataset, len(rows))
	for i, r := range rows {
		res[i] = store.Dataset{Name: r.Dataset, Count: r.Count}
	}
	store.SortDatasets(res)
	return res, nil
}

// DatasetNames implements store.MasterList.
func (s *sqlapi) DatasetNames(
	ctx context.Context,
	dataset string,
) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT scientificname
FROM %s
WHERE COALESCE(dataset, '') = %s AND scientificname IS NOT NULL
ORDER BY scientificname`, s.master, literal(dataset))

	rows, err := query[nameRow](ctx, s, q)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, r := range rows {
		res = append(res, r.Name)
	}
	return res, nil
}

// Search implements store.MasterList.
func (s *sqlapi) Search(
	ctx context.Context,
	text string,
) ([]store.Match, error) {
	text = store.SearchText(text)
	if text == "" {
		return nil, nil
	}
	lit := literal(text)
	q := fmt.Sprintf(`SELECT DISTINCT v.scname, COALESCE(v.cmname, '') AS cmname
FROM %s ml
JOIN %s v ON lower(v.scname) = lower(ml.scientificname)
WHERE strpos(lower(v.scname), %s) > 0
	OR strpos(lower(v.cmname), %s) > 0`, s.master, s.vern, lit, lit)

	rows, err := query[searchRow](ctx, s, q)
	if err != nil {
		return nil, err
	}
	pairs := make([]store.SearchPair, len(rows))
	for i, r := range rows {
		pairs[i] = store.SearchPair{
			ScientificName: r.ScientificName,
			CommonName:     r.CommonName,
		}
	}
	return store.GroupMatches(text, pairs), nil
}

// Close implements store.Store.
func (s *sqlapi) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// query posts a SQL statement to the endpoint and decodes the rows of
// the answer.
func query[T any](ctx context.Context, s *sqlapi, sql string) ([]T, error) {
	form := url.Values{}
	form.Set("q", sql)
	if s.apiKey != "" {
		form.Set("api_key", s.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, RequestError(s.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, RequestError(s.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RequestError(s.endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ResponseError(s.endpoint, resp.StatusCode, diagnostic(body))
	}

	var ar apiResponse[T]
	enc := gnfmt.GNjson{}
	if err = enc.Decode(body, &ar); err != nil {
		return nil, DecodeError(s.endpoint, err)
	}
	if len(ar.Error) > 0 {
		return nil, ResponseError(s.endpoint, resp.StatusCode,
			strings.Join(ar.Error, "; "))
	}
	return ar.Rows, nil
}

// candidatesSQL builds a query with all untrusted strings base64
// encoded, so no quoting of names is ever needed. Match keys of names
// and their genera are computed by store.MatchKeys.
func (s *sqlapi) candidatesSQL(q store.Query) string {
	keys, genera := store.MatchKeys(q.Names)
	names := make([]string, len(q.Names))
	for i, n := range q.Names {
		names[i] = fmt.Sprintf("(%s, %s, %s)",
			literal(n), literal(keys[i]), literal(genera[i]))
	}
	langs := make([]string, len(q.Languages))
	for i, l := range q.Languages {
		langs[i] = literal(strings.ToLower(l))
	}

	genusPart := ""
	if q.WithGenera {
		genusPart = fmt.Sprintf(`
	UNION ALL
	SELECT q.qname, q.qlc, v.*
	FROM q JOIN %s v ON lower(v.scname) = q.glc
	WHERE q.glc <> q.qlc`, s.vern)
	}

	return fmt.Sprintf(`WITH q AS (
	SELECT DISTINCT qname, qlc, glc
	FROM (VALUES %[1]s) AS t(qname, qlc, glc)
), matched AS (
	SELECT q.qname, q.qlc, v.*
	FROM q JOIN %[2]s v ON lower(v.scname) = q.qlc%[3]s
)
SELECT m.qname AS query_name, m.scname AS matched_name,
	lower(m.lang) AS lang, COALESCE(m.cmname, '') AS cmname,
	COALESCE(m.source, '') AS source, m.source_priority AS priority,
	COALESCE(m.url, '') AS url, COALESCE(m.source_url, '') AS source_url,
	COALESCE(m.updated_at, m.created_at) AS updated_at,
	COALESCE(m.tax_class, '') AS tax_class,
	COALESCE(m.tax_order, '') AS tax_order,
	COALESCE(m.tax_family, '') AS tax_family,
	COALESCE(ml.family, '') AS master_family
FROM matched m
LEFT JOIN %[4]s ml
	ON lower(ml.scientificname) = m.qlc
	OR lower(split_part(ml.scientificname, ' ', 1)) = m.qlc
WHERE lower(m.lang) IN (%[5]s)
ORDER BY m.qname, m.scname, m.lang`,
		strings.Join(names, ", "), s.vern, genusPart, s.master,
		strings.Join(langs, ", "))
}

// literal encodes a string as a SQL expression that decodes it on the
// server.
func literal(s string) string {
	b64 := base64.StdEncoding.EncodeToString([]byte(s))
	return fmt.Sprintf("convert_from(decode('%s', 'base64'), 'utf-8')", b64)
}

func diagnostic(body []byte) string {
	var ar apiResponse[struct{}]
	if err := (gnfmt.GNjson{}).Decode(body, &ar); err == nil && len(ar.Error) > 0 {
		return strings.Join(ar.Error, "; ")
	}
	s := strings.TrimSpace(string(body))
	if len(s) > maxDiagnostic {
		s = s[:maxDiagnostic]
	}
	return s
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, l := range []string{
		time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
