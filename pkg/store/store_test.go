package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gnames/gnvern/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestGroup(t *testing.T) {
	t1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []store.Row{
		{
			QueryName: "Panthera tigris", MatchedName: "Panthera tigris",
			Lang: "EN", CommonName: "Tiger", Source: "IUCN",
			Priority: intPtr(40), UpdatedAt: t1, Class: "Mammalia",
			URL: "http://a",
		},
		{
			QueryName: "Panthera tigris", MatchedName: "panthera tigris",
			Lang: "en", CommonName: " Tiger ", Source: "iucn",
			Priority: intPtr(90), UpdatedAt: t2, Order: "Carnivora",
		},
		{
			QueryName: "Panthera tigris", MatchedName: "Panthera tigris",
			Lang: "en", CommonName: "Tiger", Source: "Wikipedia",
			Family: "Felidae", MasterFamily: "FELIDAE",
		},
		{
			QueryName: "Panthera tigris", MatchedName: "Panthera",
			Lang: "fr", CommonName: "panthère", Source: "Wikipedia",
		},
	}

	res := store.Group(rows)
	require.Len(t, res, 2)

	en := res[0]
	assert.Equal(t, "en", en.Lang)
	assert.Equal(t, "Tiger", en.CommonName)
	assert.Equal(t, []string{"IUCN", "Wikipedia", "iucn"}, en.Sources)
	assert.Equal(t, 2, en.Corroboration,
		"sources differing only by case count once")
	require.NotNil(t, en.Priority)
	assert.Equal(t, 90, *en.Priority)
	assert.Equal(t, t2, en.UpdatedAt)
	assert.Equal(t, []string{"mammalia"}, en.Classes)
	assert.Equal(t, []string{"carnivora"}, en.Orders)
	assert.Equal(t, []string{"felidae"}, en.Families)
	assert.Equal(t, []string{"http://a"}, en.URLs)
	assert.False(t, en.Uninomial)

	fr := res[1]
	assert.Equal(t, "fr", fr.Lang)
	assert.Equal(t, "Panthera", fr.MatchedName)
	assert.True(t, fr.Uninomial)
	assert.Nil(t, fr.Priority)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, store.Group(nil))
}

func TestQueryError(t *testing.T) {
	cause := errors.New("connection reset")
	tests := []struct {
		msg string
		err *store.QueryError
		res string
	}{
		{
			msg: "status and diagnostic",
			err: &store.QueryError{Status: 400, Diagnostic: "syntax error"},
			res: "store request failed with status 400: syntax error",
		},
		{
			msg: "status only",
			err: &store.QueryError{Status: 503},
			res: "store request failed with status 503",
		},
		{
			msg: "transport error",
			err: &store.QueryError{Err: cause},
			res: "store request failed: connection reset",
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.err.Error(), v.msg)
	}
	assert.ErrorIs(t, &store.QueryError{Err: cause}, cause)
}

func TestSearchText(t *testing.T) {
	assert.Equal(t, "tiger", store.SearchText("  TiGer\t"))
	assert.Equal(t, "", store.SearchText(" "))
}

func TestSortDatasets(t *testing.T) {
	ds := []store.Dataset{
		{Name: "birds", Count: 2},
		{Name: "mammals", Count: 10},
		{Name: "amphibians", Count: 2},
	}
	store.SortDatasets(ds)
	assert.Equal(t, []store.Dataset{
		{Name: "mammals", Count: 10},
		{Name: "amphibians", Count: 2},
		{Name: "birds", Count: 2},
	}, ds)
}

func TestGroupMatches(t *testing.T) {
	pairs := []store.SearchPair{
		{ScientificName: "Panthera tigris", CommonName: "Tiger"},
		{ScientificName: "Panthera tigris", CommonName: " Tiger "},
		{ScientificName: "Panthera tigris", CommonName: "Tigre"},
		{ScientificName: "Felis tigrina", CommonName: ""},
		{ScientificName: " ", CommonName: "Tiger"},
	}
	res := store.GroupMatches("tig", pairs)
	require.Len(t, res, 2)
	assert.Equal(t, "Felis tigrina", res[0].ScientificName)
	assert.Nil(t, res[0].CommonNames)
	assert.Equal(t, "Panthera tigris", res[1].ScientificName)
	assert.Equal(t, []string{"Tiger", "Tigre"}, res[1].CommonNames)
}

func TestMatchKeys(t *testing.T) {
	names, genera := store.MatchKeys([]string{
		"Panthera tigris", " Panthera\tleo ", "Felidae",
	})
	assert.Equal(t, []string{"panthera tigris", "panthera\tleo", "felidae"}, names)
	assert.Equal(t, []string{"panthera", "panthera", "felidae"}, genera)
}
