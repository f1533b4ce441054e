/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnvern/internal/iofs"
	"github.com/gnames/gnvern/internal/iostore"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
	"github.com/gnames/gnvern/pkg/output"
	"github.com/gnames/gnvern/pkg/parserpool"
	"github.com/gnames/gnvern/pkg/resolver"
	"github.com/spf13/cobra"
)

type resolveFlags struct {
	input       string
	langs       string
	format      string
	code        string
	jobs        int
	all         bool
	noGenus     bool
	noHigher    bool
	noCache     bool
	formatNames bool
	canonical   bool
	quiet       bool
}

// getResolveCmd returns the resolve command.
func getResolveCmd() *cobra.Command {
	var rf resolveFlags

	resolveCmd := &cobra.Command{
		Use:   "resolve [names...]",
		Short: "Find vernacular names for scientific names",
		Long: `Resolve finds vernacular names for scientific names in languages
of interest.

Names come from arguments or from a file with one name per line
(use '-' to read from STDIN). For every name and language the best
vernacular name is chosen by source priority, number of sources
and recency. If a species has no vernacular name in a language,
the name of its genus is used instead.

Examples:
  gnvern resolve "Panthera tigris" "Bubo bubo"
  gnvern resolve -l en,fr -f json "Panthera tigris"
  gnvern resolve -i names.txt -f tsv > result.tsv
  gnvern resolve --canonical "Puma concolor (Linnaeus, 1771)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runResolve(cmd, args, rf)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fs := resolveCmd.Flags()
	fs.StringVarP(&rf.input, "input", "i", "",
		"file with one scientific name per line, '-' for STDIN")
	fs.StringVarP(&rf.langs, "langs", "l", "",
		"comma-separated language codes, for example 'en,fr'")
	fs.StringVarP(&rf.format, "format", "f", "csv",
		"output format: csv, tsv, json, pretty")
	fs.StringVarP(&rf.code, "code", "c", "botanical",
		"nomenclatural code for --canonical: botanical, zoological")
	fs.IntVarP(&rf.jobs, "jobs", "j", 0,
		"number of concurrent store requests")
	fs.BoolVarP(&rf.all, "all", "a", false,
		"return all ranked names instead of the best one")
	fs.BoolVar(&rf.noGenus, "no-genus", false,
		"do not use names of genera for species")
	fs.BoolVar(&rf.noHigher, "no-higher", false,
		"skip names of classes, orders and families")
	fs.BoolVar(&rf.noCache, "no-cache", false,
		"bypass the resolution cache")
	fs.BoolVarP(&rf.formatNames, "format-names", "F", false,
		"convert vernacular names to title case")
	fs.BoolVar(&rf.canonical, "canonical", false,
		"parse names with authors and resolve their canonical forms")
	fs.BoolVarP(&rf.quiet, "quiet", "q", false,
		"do not show progress bar")

	return resolveCmd
}

func runResolve(cmd *cobra.Command, args []string, rf resolveFlags) error {
	ctx := context.Background()

	var resOpts []config.Option
	resOpts = append(resOpts, langsOption(cmd, rf.langs)...)
	resOpts = append(resOpts, jobsOption(cmd, rf.jobs)...)
	if rf.noGenus {
		resOpts = append(resOpts, config.OptResolverLookupGenera(false))
	}
	if rf.formatNames {
		resOpts = append(resOpts, config.OptResolverFormatNames(true))
	}
	cfg.Update(resOpts)

	names, err := collectNames(args, rf.input)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		gn.Warn("No names to resolve. Give names as arguments or use <em>-i</em>")
		return nil
	}

	if rf.canonical {
		names = canonicalNames(names, parseCode(rf.code), cfg.JobsNumber)
	}

	st, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	r := resolver.New(cfg, st)
	return resolveNames(ctx, cmd.OutOrStdout(), cfg, r, names, rf)
}

// resolveNames writes resolved names to w. Names from a file are
// streamed chunk by chunk, names from arguments are resolved as one
// batch.
func resolveNames(
	ctx context.Context,
	w io.Writer,
	c *config.Config,
	r resolver.Resolver,
	names []string,
	rf resolveFlags,
) error {
	f, ok := output.ParseFormat(rf.format)
	if !ok {
		gn.Warn("Unknown format <em>%s</em>, using CSV", rf.format)
	}
	langs := config.NormalizeLanguages(c.Resolver.Languages)

	opts := []resolver.Option{
		resolver.OptAllMatches(rf.all),
		resolver.OptSkipHigherTaxonomy(rf.noHigher),
		resolver.OptSkipCache(rf.noCache),
	}

	if h := output.Header(f); h != "" {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}

	write := func(rec vernacular.Record) error {
		out, err := output.Output(rec, langs, f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	if rf.input == "" {
		res, err := r.ResolveBatch(ctx, names, langs, opts...)
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(res))
		for k := range res {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err = write(res[k]); err != nil {
				return err
			}
		}
		return nil
	}

	if !rf.quiet && f != gnfmt.CompactJSON && f != gnfmt.PrettyJSON {
		bar, opt := newNamesProgress(names)
		defer bar.Finish()
		opts = append(opts, opt)
	}

	var count int
	err := r.Walk(ctx, names, langs, func(rec vernacular.Record) error {
		count++
		return write(rec)
	}, opts...)
	if err != nil {
		return err
	}
	slog.Info("Resolved names from file",
		"file", rf.input, "count", humanize.Comma(int64(count)))
	return nil
}

// collectNames joins names from arguments and from the input file.
func collectNames(args []string, input string) ([]string, error) {
	var res []string
	for _, v := range args {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	if input == "" {
		return res, nil
	}
	names, err := iofs.ReadNames(input)
	if err != nil {
		return nil, err
	}
	return append(res, names...), nil
}

// canonicalNames replaces verbatim names with their simple canonical
// forms. Names that cannot be parsed are kept as they are.
func canonicalNames(names []string, code nomcode.Code, jobs int) []string {
	pool := parserpool.NewPool(jobs)
	defer pool.Close()

	res := make([]string, len(names))
	for i, v := range names {
		can, ok := pool.Canonical(v, code)
		if !ok {
			slog.Warn("Cannot parse name", "name", v)
		}
		res[i] = can
	}
	return res
}

func parseCode(s string) nomcode.Code {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zoological", "zoo", "iczn":
		return nomcode.Zoological
	default:
		return nomcode.Botanical
	}
}
