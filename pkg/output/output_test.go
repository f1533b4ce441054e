package output_test

import (
	"strings"
	"testing"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record() vernacular.Record {
	return vernacular.Record{
		Name:     "Panthera leo",
		Taxonomy: vernacular.HigherTaxonomy{Family: []string{"felidae"}},
		Names: map[string][]vernacular.Name{
			"en": {},
			"fr": {{
				ScientificName: "Panthera leo",
				MatchedName:    "Panthera",
				Lang:           "fr",
				CommonName:     "Panthère",
				Sources:        []string{"Wikipedia"},
				Priority:       50,
				Corroboration:  1,
				Indirect:       true,
			}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		s  string
		f  gnfmt.Format
		ok bool
	}{
		{"", gnfmt.CSV, true},
		{"CSV", gnfmt.CSV, true},
		{"tsv", gnfmt.TSV, true},
		{"json", gnfmt.CompactJSON, true},
		{"pretty", gnfmt.PrettyJSON, true},
		{"xml", gnfmt.CSV, false},
	}

	for _, v := range tests {
		f, ok := output.ParseFormat(v.s)
		assert.Equal(t, v.f, f, v.s)
		assert.Equal(t, v.ok, ok, v.s)
	}
}

func TestHeader(t *testing.T) {
	assert.True(t, strings.HasPrefix(output.Header(gnfmt.CSV), "ScientificName,Lang,"))
	assert.True(t, strings.HasPrefix(output.Header(gnfmt.TSV), "ScientificName\tLang\t"))
	assert.Empty(t, output.Header(gnfmt.CompactJSON))
}

func TestOutputCSV(t *testing.T) {
	res, err := output.Output(record(), []string{"en", "fr"}, gnfmt.CSV)
	require.NoError(t, err)
	lines := strings.Split(res, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Panthera leo,en,,,,,,,,,felidae", lines[0])
	assert.Equal(t,
		"Panthera leo,fr,Panthère,Panthera,true,50,1,Wikipedia,,,felidae",
		lines[1])

	res, err = output.Output(record(), []string{"fr"}, gnfmt.TSV)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(res, "\t"))
}

func TestOutputJSON(t *testing.T) {
	res, err := output.Output(record(), []string{"fr"}, gnfmt.CompactJSON)
	require.NoError(t, err)
	assert.Contains(t, res, `"name":"Panthera leo"`)
	assert.Contains(t, res, `"commonName":"Panthère"`)

	var rec vernacular.Record
	err = gnfmt.GNjson{}.Decode([]byte(res), &rec)
	require.NoError(t, err)
	assert.Equal(t, "Panthera leo", rec.Name)
	assert.Empty(t, rec.Names["en"])
}
