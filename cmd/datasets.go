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
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/internal/iostore"
	"github.com/gnames/gnvern/pkg/output"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/spf13/cobra"
)

// getDatasetsCmd returns the datasets command.
func getDatasetsCmd() *cobra.Command {
	var format string

	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets of the master list",
		Long: `Datasets prints every dataset of the master list with the number
of its names, the largest datasets first. Dataset names can be given
to 'gnvern coverage -d'.

Examples:
  gnvern datasets
  gnvern datasets -f json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runDatasets(cmd, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	datasetsCmd.Flags().StringVarP(&format, "format", "f", "text",
		"output format: text, json, pretty")

	return datasetsCmd
}

func runDatasets(cmd *cobra.Command, format string) error {
	ctx := context.Background()

	st, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ml, err := iostore.MasterList(st)
	if err != nil {
		return err
	}
	ds, err := ml.Datasets(ctx)
	if err != nil {
		return err
	}
	if len(ds) == 0 {
		gn.Warn("The master list is empty")
		return nil
	}
	return writeDatasets(cmd.OutOrStdout(), ds, format)
}

func writeDatasets(w io.Writer, ds []store.Dataset, format string) error {
	if isJSON(format) {
		f, _ := output.ParseFormat(format)
		bs, err := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}.Encode(ds)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Dataset\tNames")
	for _, d := range ds {
		fmt.Fprintf(tw, "%s\t%s\n", d.Name, humanize.Comma(int64(d.Count)))
	}
	return tw.Flush()
}
