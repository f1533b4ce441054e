package parserpool_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnvern/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	res, err := pool.Parse("Homo sapiens Linnaeus, 1758", nomcode.Zoological)
	require.NoError(t, err)
	assert.True(t, res.Parsed)

	_, err = pool.Parse("Homo sapiens", nomcode.Unknown)
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	pool := parserpool.NewPool(0)
	defer pool.Close()

	tests := []struct {
		msg, name, res string
		ok             bool
	}{
		{"authorship", "Panthera tigris (Linnaeus, 1758)", "Panthera tigris", true},
		{"plain", "Panthera leo", "Panthera leo", true},
		{"uninomial", "Felidae Gray, 1821", "Felidae", true},
		{"spaces", "  Canis lupus  ", "Canis lupus", true},
		{"not a name", "   ", "", false},
	}

	for _, v := range tests {
		res, ok := pool.Canonical(v.name, nomcode.Zoological)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.ok, ok, v.msg)
	}
}

func TestCanonicalConcurrent(t *testing.T) {
	pool := parserpool.NewPool(4)
	defer pool.Close()

	names := []string{
		"Panthera tigris (Linnaeus, 1758)",
		"Vulpes vulpes (Linnaeus, 1758)",
		"Bellis perennis L.",
	}
	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := pool.Canonical(names[i%len(names)], nomcode.Botanical)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
