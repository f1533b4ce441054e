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
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/internal/iostore"
	"github.com/gnames/gnvern/pkg/output"
	"github.com/gnames/gnvern/pkg/store"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
func getSearchCmd() *cobra.Command {
	var format string

	searchCmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find master list names by a part of a name",
		Long: `Search finds names of the master list whose scientific name or
one of the vernacular names contains the text, ignoring case. Every
found scientific name is printed with its vernacular names that
contain the text.

Examples:
  gnvern search tiger
  gnvern search "panthera t" -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSearch(cmd, strings.Join(args, " "), format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	searchCmd.Flags().StringVarP(&format, "format", "f", "text",
		"output format: text, json, pretty")

	return searchCmd
}

func runSearch(cmd *cobra.Command, text, format string) error {
	ctx := context.Background()

	if store.SearchText(text) == "" {
		gn.Warn("Nothing to search for")
		return nil
	}

	st, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ml, err := iostore.MasterList(st)
	if err != nil {
		return err
	}
	matches, err := ml.Search(ctx, text)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		gn.Info("No names contain <em>%s</em>", text)
	}
	return writeMatches(cmd.OutOrStdout(), matches, format)
}

func writeMatches(w io.Writer, matches []store.Match, format string) error {
	if isJSON(format) {
		f, _ := output.ParseFormat(format)
		bs, err := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}.Encode(matches)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	}

	for _, m := range matches {
		if len(m.CommonNames) == 0 {
			fmt.Fprintln(w, m.ScientificName)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n",
			m.ScientificName, strings.Join(m.CommonNames, "; "))
	}
	return nil
}
