package resolver

import (
	"strconv"
	"strings"
)

// Option changes the behavior of one resolution call.
type Option func(*options)

type options struct {
	skipHigher    bool
	skipCache     bool
	allMatches    bool
	genusFallback bool
	formatNames   bool
	progress      func(done, total int)
}

// OptSkipHigherTaxonomy turns off vernacular names of classes, orders
// and families.
func OptSkipHigherTaxonomy(b bool) Option {
	return func(o *options) {
		o.skipHigher = b
	}
}

// OptSkipCache bypasses the resolution cache, neither reading nor
// saving results.
func OptSkipCache(b bool) Option {
	return func(o *options) {
		o.skipCache = b
	}
}

// OptAllMatches returns all ranked names per language instead of the
// best one.
func OptAllMatches(b bool) Option {
	return func(o *options) {
		o.allMatches = b
	}
}

// OptGenusFallback allows names of a genus to stand in for its species.
func OptGenusFallback(b bool) Option {
	return func(o *options) {
		o.genusFallback = b
	}
}

// OptFormatNames converts vernacular names to title case.
func OptFormatNames(b bool) Option {
	return func(o *options) {
		o.formatNames = b
	}
}

// OptProgress sets a function that receives the number of processed and
// total names after every processed group of chunks.
func OptProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// signature describes everything besides names that changes a result.
func (o options) signature(langs []string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(langs, ","))
	for _, b := range []bool{
		o.skipHigher, o.allMatches, o.genusFallback, o.formatNames,
	} {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatBool(b))
	}
	sb.WriteString("#")
	return sb.String()
}
