package vernacular_test

import (
	"testing"

	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/stretchr/testify/assert"
)

func TestGenus(t *testing.T) {
	tests := []struct {
		msg, name, genus string
	}{
		{"binomial", "Panthera tigris", "Panthera"},
		{"trinomial", "Panthera tigris altaica", "Panthera"},
		{"uninomial", "Felidae", "Felidae"},
		{"padded", "  Panthera tigris ", "Panthera"},
		{"tab", "Panthera\ttigris", "Panthera"},
		{"empty", "", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.genus, vernacular.Genus(v.name), v.msg)
	}
}

func TestIsUninomial(t *testing.T) {
	assert.True(t, vernacular.IsUninomial("Felidae"))
	assert.True(t, vernacular.IsUninomial(" Felidae "))
	assert.False(t, vernacular.IsUninomial("Panthera tigris"))
}

func TestResultClone(t *testing.T) {
	orig := vernacular.Result{
		"Panthera tigris": {
			Name:     "Panthera tigris",
			Taxonomy: vernacular.HigherTaxonomy{Order: []string{"carnivora"}},
			Names: map[string][]vernacular.Name{
				"en": {{CommonName: "Tiger", Sources: []string{"ITIS"}}},
				"de": {},
			},
		},
	}

	cp := orig.Clone()
	assert.Equal(t, orig, cp)

	cp["Panthera tigris"].Names["en"][0].CommonName = "Cat"
	cp["Panthera tigris"].Names["en"][0].Sources[0] = "EOL"
	cp["Panthera tigris"].Taxonomy.Order[0] = "rodentia"
	cp["Panthera tigris"].Names["fr"] = nil
	delete(cp, "Panthera tigris")

	rec := orig["Panthera tigris"]
	assert.Equal(t, "Tiger", rec.Names["en"][0].CommonName)
	assert.Equal(t, []string{"ITIS"}, rec.Names["en"][0].Sources)
	assert.Equal(t, []string{"carnivora"}, rec.Taxonomy.Order)
	assert.Len(t, rec.Names, 2)
	assert.NotNil(t, rec.Names["de"])

	assert.Nil(t, vernacular.Result(nil).Clone())
}
