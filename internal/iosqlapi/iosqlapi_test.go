package iosqlapi

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowsJSON = `{"rows":[
{"query_name":"Panthera tigris","matched_name":"Panthera tigris","lang":"en",
 "cmname":"Tiger","source":"IUCN","priority":80,"url":"","source_url":"",
 "updated_at":"2021-05-01T10:00:00Z","tax_class":"Mammalia","tax_order":"",
 "tax_family":"","master_family":"Felidae"},
{"query_name":"Panthera tigris","matched_name":"Panthera tigris","lang":"en",
 "cmname":"Tiger","source":"Wikipedia","priority":null,"url":"","source_url":"",
 "updated_at":"","tax_class":"","tax_order":"","tax_family":"",
 "master_family":""}
]}`

func testConfig(url string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptStoreType("sqlapi"),
		config.OptStoreURL(url),
		config.OptStoreAPIKey("secret"),
	})
	return cfg
}

func TestCandidates(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, r.ParseForm())
			form = r.PostForm
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(rowsJSON))
		}))
	defer srv.Close()

	s := New(testConfig(srv.URL))
	defer s.Close()

	res, err := s.Candidates(context.Background(), store.Query{
		Names:      []string{"Panthera tigris"},
		Languages:  []string{"EN"},
		WithGenera: true,
	})
	require.NoError(t, err)
	require.Len(t, res, 1)

	c := res[0]
	assert.Equal(t, "Tiger", c.CommonName)
	assert.Equal(t, []string{"IUCN", "Wikipedia"}, c.Sources)
	assert.Equal(t, 2, c.Corroboration)
	require.NotNil(t, c.Priority)
	assert.Equal(t, 80, *c.Priority)
	assert.Equal(t, []string{"felidae"}, c.Families)
	assert.Equal(t, time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC), c.UpdatedAt)

	assert.Equal(t, []string{"secret"}, form["api_key"])
	q := form["q"][0]
	assert.NotContains(t, q, "Panthera tigris",
		"names never appear as plain text")
	b64 := base64.StdEncoding.EncodeToString([]byte("Panthera tigris"))
	assert.Contains(t, q, b64)
	assert.Contains(t, q, "UNION ALL")
}

func TestInjection(t *testing.T) {
	s := NewWithClient(testConfig("http://localhost"), http.DefaultClient).(*sqlapi)
	name := "x'); DROP TABLE vernacular_names; --"
	sql := s.candidatesSQL(store.Query{
		Names:     []string{name},
		Languages: []string{"en"},
	})
	assert.NotContains(t, sql, "DROP TABLE")
	assert.NotContains(t, sql, "UNION ALL")
	assert.Contains(t, sql, literal(name))
}

func TestEmptyQuery(t *testing.T) {
	s := New(testConfig("http://127.0.0.1:1"))
	res, err := s.Candidates(context.Background(), store.Query{})
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		msg    string
		status int
		body   string
		code   gn.ErrorCode
		diag   string
	}{
		{"bad request", 400, `{"error":["syntax error at or near"]}`,
			errcode.StoreResponseError, "syntax error at or near"},
		{"server error", 500, "internal failure",
			errcode.StoreResponseError, "internal failure"},
		{"broken json", 200, "{rows", errcode.StoreDecodeError, ""},
		{"error in body", 200, `{"error":["permission denied"]}`,
			errcode.StoreResponseError, "permission denied"},
	}

	for _, v := range tests {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(v.status)
				_, _ = w.Write([]byte(v.body))
			}))

		s := New(testConfig(srv.URL))
		_, err := s.Candidates(context.Background(), store.Query{
			Names: []string{"Bubo bubo"}, Languages: []string{"en"},
		})
		srv.Close()

		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)

		if v.diag == "" {
			continue
		}
		var qe *store.QueryError
		require.True(t, errors.As(gnErr.Err, &qe), v.msg)
		assert.Equal(t, v.status, qe.Status, v.msg)
		assert.Equal(t, v.diag, qe.Diagnostic, v.msg)
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := New(testConfig(url))
	_, err := s.Candidates(context.Background(), store.Query{
		Names: []string{"Bubo bubo"}, Languages: []string{"en"},
	})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	var qe *store.QueryError
	require.True(t, errors.As(gnErr.Err, &qe))
	assert.Equal(t, 0, qe.Status)
	assert.Error(t, qe.Err)
}

func TestDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
	defer srv.Close()

	s := New(testConfig(srv.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Candidates(ctx, store.Query{
		Names: []string{"Bubo bubo"}, Languages: []string{"en"},
	})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.ErrorIs(t, gnErr.Err, context.DeadlineExceeded)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in  string
		res time.Time
	}{
		{"", time.Time{}},
		{"garbage", time.Time{}},
		{"2020-02-03 04:05:06", time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)},
		{"2020-02-03T04:05:06Z", time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC)},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, parseTime(v.in), v.in)
	}
	assert.True(t, strings.HasPrefix(literal("a"), "convert_from(decode('"))
}

func TestMatchKeysSQL(t *testing.T) {
	s := NewWithClient(testConfig("http://localhost"), http.DefaultClient).(*sqlapi)
	sql := s.candidatesSQL(store.Query{
		Names:      []string{" Panthera\ttigris "},
		Languages:  []string{"en"},
		WithGenera: true,
	})
	assert.Contains(t, sql, literal(" Panthera\ttigris "))
	assert.Contains(t, sql, literal("panthera\ttigris"))
	assert.Contains(t, sql, literal("panthera"))
	assert.NotContains(t, sql, "split_part(qname")
}

func TestMasterList(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			q := r.PostForm.Get("q")
			queries = append(queries, q)
			w.Header().Set("Content-Type", "application/json")
			switch {
			case strings.Contains(q, "GROUP BY"):
				_, _ = w.Write([]byte(`{"rows":[
{"dataset":"birds","count":2},{"dataset":"mammals","count":5}]}`))
			case strings.Contains(q, "strpos"):
				_, _ = w.Write([]byte(`{"rows":[
{"scname":"Panthera tigris","cmname":"Tiger"},
{"scname":"Panthera tigris","cmname":"Tigre"}]}`))
			default:
				_, _ = w.Write([]byte(`{"rows":[
{"scientificname":"Panthera leo"},{"scientificname":"Panthera tigris"}]}`))
			}
		}))
	defer srv.Close()

	s := New(testConfig(srv.URL))
	defer s.Close()
	ml, ok := s.(store.MasterList)
	require.True(t, ok)
	ctx := context.Background()

	ds, err := ml.Datasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Dataset{
		{Name: "mammals", Count: 5},
		{Name: "birds", Count: 2},
	}, ds)

	names, err := ml.DatasetNames(ctx, "mammals'; --")
	require.NoError(t, err)
	assert.Equal(t, []string{"Panthera leo", "Panthera tigris"}, names)
	assert.Contains(t, queries[1], literal("mammals'; --"))
	assert.NotContains(t, queries[1], "mammals'")

	matches, err := ml.Search(ctx, " TIGER ")
	require.NoError(t, err)
	assert.Equal(t, []store.Match{
		{ScientificName: "Panthera tigris", CommonNames: []string{"Tiger"}},
	}, matches)
	assert.Contains(t, queries[2], literal("tiger"))

	matches, err = ml.Search(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, matches)
	assert.Len(t, queries, 3, "blank search makes no request")
}

func TestMasterListError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":["relation does not exist"]}`))
		}))
	defer srv.Close()

	s := New(testConfig(srv.URL)).(store.MasterList)
	_, err := s.Datasets(context.Background())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StoreResponseError, gnErr.Code)
}
