// Package parserpool provides a pool of gnparser instances that turn
// verbatim scientific names into canonical forms before resolution.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// It keeps separate parsers for botanical and zoological codes.
type Pool interface {
	// Parse parses a scientific name string using the specified
	// nomenclatural code. It is safe for concurrent use.
	Parse(nameString string, code nomcode.Code) (parsed.Parsed, error)

	// Canonical returns the simple canonical form of a name, for example
	// "Panthera tigris" for "Panthera tigris (Linnaeus, 1758)". Names that
	// cannot be parsed are returned trimmed, with false.
	Canonical(nameString string, code nomcode.Code) (string, bool)

	// Close shuts down the parser pools. After calling Close, the pool
	// should not be used.
	Close()
}

type pool struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
	)
	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
	)

	return &pool{
		botanicalCh:  gnparser.NewPool(botanicalCfg, poolSize),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, poolSize),
	}
}

func (p *pool) Parse(
	nameString string,
	code nomcode.Code,
) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf("unsupported nomenclatural code: %v", code)
	}

	parser := <-ch
	res := parser.ParseName(nameString)
	ch <- parser

	return res, nil
}

func (p *pool) Canonical(nameString string, code nomcode.Code) (string, bool) {
	trimmed := strings.TrimSpace(nameString)
	res, err := p.Parse(trimmed, code)
	if err != nil || !res.Parsed || res.Canonical == nil {
		return trimmed, false
	}
	return res.Canonical.Simple, true
}

func (p *pool) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}
	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}
