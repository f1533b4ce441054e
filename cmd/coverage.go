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
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/internal/iofs"
	"github.com/gnames/gnvern/internal/iostore"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/coverage"
	"github.com/gnames/gnvern/pkg/output"
	"github.com/gnames/gnvern/pkg/resolver"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/spf13/cobra"
)

// allDatasets is the --dataset value that selects every dataset.
const allDatasets = "all"

// getCoverageCmd returns the coverage command.
func getCoverageCmd() *cobra.Command {
	var input, langs, format string
	var datasets []string
	var noGenus bool

	coverageCmd := &cobra.Command{
		Use:   "coverage [names...]",
		Short: "Report vernacular name coverage of a names list",
		Long: `Coverage resolves a list of scientific names and counts, for every
language, how many names got a vernacular name of their own, how many
got the name of their genus, and how many stayed unmatched.

Names come from arguments, from a file, or from datasets of the master
list. With --dataset there is one report per dataset.

Examples:
  gnvern coverage -i names.txt
  gnvern coverage -i names.txt -l en,de -f json
  gnvern coverage -d birds -d mammals
  gnvern coverage -d all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCoverage(cmd, args, input, langs, format, datasets, noGenus)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fs := coverageCmd.Flags()
	fs.StringVarP(&input, "input", "i", "",
		"file with one scientific name per line, '-' for STDIN")
	fs.StringVarP(&langs, "langs", "l", "",
		"comma-separated language codes, for example 'en,fr'")
	fs.StringVarP(&format, "format", "f", "text",
		"output format: text, json, pretty")
	fs.StringSliceVarP(&datasets, "dataset", "d", nil,
		"master list dataset to report, 'all' for every dataset")
	fs.BoolVar(&noGenus, "no-genus", false,
		"do not count names of genera for species")

	return coverageCmd
}

func runCoverage(
	cmd *cobra.Command,
	args []string,
	input, langs, format string,
	datasets []string,
	noGenus bool,
) error {
	ctx := context.Background()

	resOpts := langsOption(cmd, langs)
	if noGenus {
		resOpts = append(resOpts, config.OptResolverLookupGenera(false))
	}
	cfg.Update(resOpts)

	var names []string
	var err error
	if len(datasets) == 0 {
		names, err = collectNames(args, input)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			gn.Warn("No names to check. " +
				"Give names as arguments, use <em>-i</em> or <em>-d</em>")
			return nil
		}
	}

	st, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	display, err := iofs.Languages()
	if err != nil {
		return err
	}

	r := resolver.New(cfg, st)
	if len(datasets) == 0 {
		rep, err := coverageReport(ctx, cfg, r, names, display)
		if err != nil {
			return err
		}
		return writeCoverage(cmd.OutOrStdout(), rep, format)
	}

	ml, err := iostore.MasterList(st)
	if err != nil {
		return err
	}
	reps, err := datasetReports(ctx, cfg, r, ml, datasets, display)
	if err != nil {
		return err
	}
	for i, rep := range reps {
		if i > 0 && !isJSON(format) {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if err = writeCoverage(cmd.OutOrStdout(), rep, format); err != nil {
			return err
		}
	}
	return nil
}

// coverageReport resolves names without higher taxonomy and summarizes
// the result.
func coverageReport(
	ctx context.Context,
	c *config.Config,
	r resolver.Resolver,
	names []string,
	display map[string]string,
) (coverage.Report, error) {
	langs := config.NormalizeLanguages(c.Resolver.Languages)
	res, err := r.ResolveBatch(ctx, names, langs,
		resolver.OptSkipHigherTaxonomy(true),
		resolver.OptSkipCache(true),
	)
	if err != nil {
		return coverage.Report{}, err
	}
	rep := coverage.Summarize(res, langs, display)
	slog.Info("Coverage report",
		"names", humanize.Comma(int64(rep.Names)), "langs", len(langs))
	return rep, nil
}

// datasetReports makes a coverage report for every dataset. The value
// 'all' expands to every dataset of the master list.
func datasetReports(
	ctx context.Context,
	c *config.Config,
	r resolver.Resolver,
	ml store.MasterList,
	datasets []string,
	display map[string]string,
) ([]coverage.Report, error) {
	if slices.Contains(datasets, allDatasets) {
		ds, err := ml.Datasets(ctx)
		if err != nil {
			return nil, err
		}
		datasets = make([]string, len(ds))
		for i, d := range ds {
			datasets[i] = d.Name
		}
	}

	res := make([]coverage.Report, 0, len(datasets))
	for _, ds := range datasets {
		names, err := ml.DatasetNames(ctx, ds)
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			slog.Warn("Dataset has no names", "dataset", ds)
		}
		rep, err := coverageReport(ctx, c, r, names, display)
		if err != nil {
			return nil, err
		}
		rep.Dataset = ds
		res = append(res, rep)
	}
	return res, nil
}

func isJSON(format string) bool {
	f, ok := output.ParseFormat(format)
	return ok && (f == gnfmt.CompactJSON || f == gnfmt.PrettyJSON)
}

func writeCoverage(w io.Writer, rep coverage.Report, format string) error {
	if isJSON(format) {
		f, _ := output.ParseFormat(format)
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		bs, err := enc.Encode(rep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	}

	if rep.Dataset != "" {
		fmt.Fprintf(w, "Dataset: %s\n", rep.Dataset)
	}
	fmt.Fprintf(w, "Names: %s\n\n", humanize.Comma(int64(rep.Names)))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Language\tSpecies\tGenus\tUnmatched")
	for _, lc := range rep.Langs {
		name := lc.Name
		if name == "" {
			name = lc.Lang
		}
		fmt.Fprintf(tw, "%s\t%s (%.1f%%)\t%s (%.1f%%)\t%s (%.1f%%)\n",
			name,
			humanize.Comma(int64(lc.AsSpecies)), lc.SpeciesPercent(),
			humanize.Comma(int64(lc.AsGenus)), lc.GenusPercent(),
			humanize.Comma(int64(lc.Unmatched)), lc.UnmatchedPercent(),
		)
	}
	return tw.Flush()
}
