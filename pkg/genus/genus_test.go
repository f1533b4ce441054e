package genus_test

import (
	"testing"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/genus"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	cands := []vernacular.Candidate{
		{MatchedName: "Panthera tigris", CommonName: "Tiger"},
		{MatchedName: "panthera", CommonName: "Big cats"},
		{MatchedName: "Felis", CommonName: "Cats"},
	}

	direct, gen := genus.Split("Panthera tigris", cands)
	assert.Len(t, direct, 1)
	assert.Len(t, gen, 1)
	assert.Equal(t, "Big cats", gen[0].CommonName)

	direct, gen = genus.Split("Panthera", cands)
	assert.Len(t, direct, 1)
	assert.Empty(t, gen)
}

func TestSelect(t *testing.T) {
	tiger := vernacular.Candidate{
		MatchedName: "Panthera tigris", CommonName: "Tiger"}
	noName := vernacular.Candidate{MatchedName: "Panthera tigris"}
	bigCats := vernacular.Candidate{
		MatchedName: "Panthera", CommonName: "Big cats", Uninomial: true}

	tests := []struct {
		msg     string
		cands   []vernacular.Candidate
		allow   bool
		onEmpty bool
		res     []string
	}{
		{"direct wins", []vernacular.Candidate{tiger, bigCats},
			true, false, []string{"Tiger"}},
		{"fallback", []vernacular.Candidate{bigCats},
			true, false, []string{"Big cats"}},
		{"fallback disabled", []vernacular.Candidate{bigCats},
			false, false, nil},
		{"empty direct blocks fallback", []vernacular.Candidate{noName, bigCats},
			true, false, nil},
		{"empty direct with onEmpty", []vernacular.Candidate{noName, bigCats},
			true, true, []string{"Big cats"}},
		{"empty names are dropped", []vernacular.Candidate{noName, tiger},
			true, false, []string{"Tiger"}},
		{"nothing", nil, true, true, nil},
	}

	for _, v := range tests {
		res := genus.Select("Panthera tigris", v.cands, v.allow, v.onEmpty)
		var names []string
		for _, c := range res {
			names = append(names, c.CommonName)
		}
		assert.Equal(t, v.res, names, v.msg)
	}
}
