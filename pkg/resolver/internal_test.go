package resolver

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueNames(t *testing.T) {
	tests := []struct {
		msg   string
		names []string
		res   []string
	}{
		{"sorted unique", []string{"b", "", "a", "b", "  ", "A"},
			[]string{"A", "a", "b"}},
		{"trimmed", []string{"Panthera tigris", "Panthera tigris ",
			" Panthera tigris", "\tPanthera tigris\n"},
			[]string{"Panthera tigris"}},
		{"nil", nil, []string{}},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, UniqueNames(v.names), v.msg)
	}
}

func TestSignature(t *testing.T) {
	o1 := options{genusFallback: true}
	o2 := options{genusFallback: true, skipCache: true}
	o3 := options{}

	langs := []string{"en", "fr"}
	assert.Equal(t, o1.signature(langs), o2.signature(langs),
		"cache switch does not change results")
	assert.NotEqual(t, o1.signature(langs), o3.signature(langs))
	assert.NotEqual(t, o1.signature(langs), o1.signature([]string{"en"}))
}

func TestDuplicateNameError(t *testing.T) {
	err := DuplicateNameError("Panthera leo")
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ResolverDuplicateNameError, gnErr.Code)
	assert.Contains(t, gnErr.Err.Error(), "duplicate name \"Panthera leo\"")
}
