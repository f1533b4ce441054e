package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/resolver"
	"github.com/gnames/gnvern/pkg/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func testResolver(t *testing.T) (*config.Config, resolver.Resolver) {
	t.Helper()
	c := config.New()
	c.Update([]config.Option{
		config.OptResolverLanguages([]string{"en", "fr"}),
		config.OptResolverChunkSize(2),
	})
	s := memstore.New([]memstore.Entry{
		{Name: "Panthera tigris", Lang: "en", CommonName: "Tiger",
			Source: "IUCN", Priority: intPtr(90), Class: "Mammalia"},
		{Name: "Panthera", Lang: "fr", CommonName: "Panthère",
			Source: "Wikipedia"},
		{Name: "Bubo bubo", Lang: "en", CommonName: "Eurasian eagle-owl",
			Source: "Avibase"},
	})
	return c, resolver.New(c, s)
}

func TestResolveCmdFlags(t *testing.T) {
	cmd := getResolveCmd()
	assert.Equal(t, "resolve", cmd.Name())

	tests := []struct {
		name, short, def string
	}{
		{"input", "i", ""},
		{"langs", "l", ""},
		{"format", "f", "csv"},
		{"all", "a", "false"},
		{"no-genus", "", "false"},
		{"no-higher", "", "false"},
		{"no-cache", "", "false"},
		{"format-names", "F", "false"},
		{"canonical", "", "false"},
		{"quiet", "q", "false"},
	}
	for _, v := range tests {
		flag := cmd.Flags().Lookup(v.name)
		require.NotNil(t, flag, v.name)
		assert.Equal(t, v.short, flag.Shorthand, v.name)
		assert.Equal(t, v.def, flag.DefValue, v.name)
	}
}

func TestResolveNamesCSV(t *testing.T) {
	c, r := testResolver(t)
	var buf bytes.Buffer
	err := resolveNames(context.Background(), &buf, c, r,
		[]string{"Panthera tigris", "Bubo bubo"},
		resolveFlags{format: "csv", noHigher: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5, "header and two languages per name")
	assert.True(t, strings.HasPrefix(lines[0], "ScientificName,Lang"))
	assert.True(t, strings.HasPrefix(lines[1], "Bubo bubo,en,Eurasian eagle-owl"))
	assert.True(t, strings.HasPrefix(lines[2], "Bubo bubo,fr,,"))
	assert.True(t, strings.HasPrefix(lines[3], "Panthera tigris,en,Tiger"))
	assert.Contains(t, lines[4], "Panthère,Panthera,true")
}

func TestResolveNamesJSON(t *testing.T) {
	c, r := testResolver(t)
	var buf bytes.Buffer
	err := resolveNames(context.Background(), &buf, c, r,
		[]string{"Panthera tigris"}, resolveFlags{format: "json"})
	require.NoError(t, err)

	out := strings.TrimSpace(buf.String())
	assert.Equal(t, 1, strings.Count(out, "\n")+1)
	assert.Contains(t, out, `"name":"Panthera tigris"`)
	assert.Contains(t, out, `"Tiger"`)
}

func TestResolveNamesFromFile(t *testing.T) {
	c, r := testResolver(t)
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("Panthera tigris\nBubo bubo\nPuma concolor\n"), 0644))

	names, err := collectNames([]string{"Panthera tigris"}, path)
	require.NoError(t, err)
	assert.Len(t, names, 4)

	var buf bytes.Buffer
	err = resolveNames(context.Background(), &buf, c, r, names,
		resolveFlags{input: path, format: "tsv", quiet: true})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7, "header and two languages for three names")
	assert.True(t, strings.HasPrefix(lines[0], "ScientificName\tLang"))
	assert.True(t, strings.HasPrefix(lines[1], "Bubo bubo\ten"))
	assert.True(t, strings.HasPrefix(lines[5], "Puma concolor\ten\t\t"))
}

func TestCollectNames(t *testing.T) {
	names, err := collectNames([]string{" Bubo bubo ", "", "Puma concolor"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bubo bubo", "Puma concolor"}, names)

	_, err = collectNames(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestCanonicalNames(t *testing.T) {
	res := canonicalNames([]string{
		"Puma concolor (Linnaeus, 1771)",
		"Bubo bubo L.",
	}, nomcode.Zoological, 2)
	assert.Equal(t, []string{"Puma concolor", "Bubo bubo"}, res)
}

func TestParseCode(t *testing.T) {
	assert.Equal(t, nomcode.Zoological, parseCode("zoo"))
	assert.Equal(t, nomcode.Zoological, parseCode("Zoological"))
	assert.Equal(t, nomcode.Botanical, parseCode("botanical"))
	assert.Equal(t, nomcode.Botanical, parseCode(""))
}

func TestSplitLangs(t *testing.T) {
	assert.Equal(t, []string{"en", "fr"}, splitLangs(" EN,fr,,en"))
	assert.Empty(t, splitLangs(""))
}
