package iopgstore

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/internal/iodb"
	"github.com/gnames/gnvern/internal/ioschema"
	"github.com/gnames/gnvern/internal/iotesting"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, `"vernacular_names"`, sanitize("vernacular_names"))
	assert.Equal(t, `"public"."vern"`, sanitize("public.vern"))
}

func TestCandidatesSQL(t *testing.T) {
	q := candidatesSQL("vern", "public.ml")
	assert.Contains(t, q, `JOIN "vern" v ON lower(v.scname) = q.qlc`)
	assert.Contains(t, q, `LEFT JOIN "public"."ml" ml`)
	assert.Contains(t, q, "unnest($1::text[], $2::text[], $3::text[])")
	assert.Contains(t, q, "ANY($4::text[])")
	assert.NotContains(t, q, "split_part(qname")
}

func TestMasterListError(t *testing.T) {
	err := MasterListError(errors.New("permission denied"))
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StoreQueryError, gnErr.Code)

	var qErr *store.QueryError
	require.ErrorAs(t, gnErr.Err, &qErr)
	assert.Equal(t, "permission denied", qErr.Diagnostic)
}

func TestQueryError(t *testing.T) {
	cause := errors.New("relation does not exist")
	err := QueryError(3, cause)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.StoreQueryError, gnErr.Code)

	var qErr *store.QueryError
	require.ErrorAs(t, gnErr.Err, &qErr)
	assert.Equal(t, "relation does not exist", qErr.Diagnostic)
	assert.ErrorIs(t, gnErr.Err, cause)
}

func TestNotConnected(t *testing.T) {
	s := NewWithOperator(iodb.NewPgxOperator(), config.New())
	_, err := s.Candidates(context.Background(), store.Query{
		Names: []string{"Panthera leo"}, Languages: []string{"en"},
	})
	assert.Error(t, err)

	res, err := s.Candidates(context.Background(), store.Query{})
	assert.NoError(t, err)
	assert.Empty(t, res)

	ml, ok := s.(store.MasterList)
	require.True(t, ok)
	_, err = ml.Datasets(context.Background())
	assert.Error(t, err)
	matches, err := ml.Search(context.Background(), " ")
	assert.NoError(t, err)
	assert.Nil(t, matches)
}

func TestCandidates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, true))

	_, err := op.Pool().Exec(ctx, `
INSERT INTO vernacular_names
	(scname, lang, cmname, source, source_priority, tax_family, created_at)
VALUES
	('Panthera tigris', 'en', 'Tiger', 'IUCN', 90, 'Felidae', now()),
	('Panthera tigris', 'EN', 'Tiger', 'Wikipedia', NULL, NULL, now()),
	('Panthera', 'fr', 'Panthère', 'Wikipedia', 50, NULL, now()),
	('Panthera', 'de', 'Großkatzen', 'Wikipedia', 50, NULL, now())`)
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, `
INSERT INTO master_list (dataset, scientificname, family)
VALUES ('test', 'Panthera leo', 'Felidae')`)
	require.NoError(t, err)

	s := NewWithOperator(op, cfg)
	defer s.Close()

	res, err := s.Candidates(ctx, store.Query{
		Names:      []string{"Panthera tigris", "Panthera leo"},
		Languages:  []string{"en", "fr"},
		WithGenera: true,
	})
	require.NoError(t, err)
	require.Len(t, res, 3)

	tiger := res[1]
	assert.Equal(t, "Panthera tigris", tiger.QueryName)
	assert.Equal(t, "en", tiger.Lang)
	assert.Equal(t, 2, tiger.Corroboration)
	require.NotNil(t, tiger.Priority)
	assert.Equal(t, 90, *tiger.Priority)
	assert.Equal(t, []string{"felidae"}, tiger.Families)
	assert.False(t, tiger.UpdatedAt.IsZero())

	res, err = s.Candidates(ctx, store.Query{
		Names:     []string{"Panthera tigris"},
		Languages: []string{"fr"},
	})
	require.NoError(t, err)
	assert.Empty(t, res, "genus rows need WithGenera")

	res, err = s.Candidates(ctx, store.Query{
		Names:     []string{"panthera"},
		Languages: []string{"fr"},
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []string{"felidae"}, res[0].Families,
		"master list family of a genus")
}

func TestMasterList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg, true))

	_, err := op.Pool().Exec(ctx, `
INSERT INTO vernacular_names (scname, lang, cmname, source, created_at)
VALUES
	('Panthera tigris', 'en', 'Tiger', 'IUCN', now()),
	('Panthera tigris', 'en', 'Bengal tiger', 'EOL', now()),
	('Panthera leo', 'en', 'Lion', 'IUCN', now()),
	('Felis catus', 'en', 'Tiger cat', 'EOL', now())`)
	require.NoError(t, err)
	_, err = op.Pool().Exec(ctx, `
INSERT INTO master_list (dataset, scientificname, family)
VALUES
	('mammals', 'Panthera tigris', 'Felidae'),
	('mammals', 'Panthera leo', 'Felidae'),
	('birds', 'Bubo bubo', 'Strigidae')`)
	require.NoError(t, err)

	s := NewWithOperator(op, cfg)
	defer s.Close()
	ml := s.(store.MasterList)

	ds, err := ml.Datasets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Dataset{
		{Name: "mammals", Count: 2},
		{Name: "birds", Count: 1},
	}, ds)

	names, err := ml.DatasetNames(ctx, "mammals")
	require.NoError(t, err)
	assert.Equal(t, []string{"Panthera leo", "Panthera tigris"}, names)

	matches, err := ml.Search(ctx, "Tiger")
	require.NoError(t, err)
	assert.Equal(t, []store.Match{{
		ScientificName: "Panthera tigris",
		CommonNames:    []string{"Bengal tiger", "Tiger"},
	}}, matches)
}
