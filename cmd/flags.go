package cmd

import (
	"fmt"
	"os"
	"strings"

	gnvern "github.com/gnames/gnvern/pkg"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gnvern.Version, gnvern.Build)
		os.Exit(0)
	}
}

// splitLangs converts a comma-separated list of language codes into
// a slice.
func splitLangs(s string) []string {
	return config.NormalizeLanguages(strings.Split(s, ","))
}

// langsOption returns an option for the --langs flag when it was set.
func langsOption(cmd *cobra.Command, langs string) []config.Option {
	if !cmd.Flags().Changed("langs") {
		return nil
	}
	return []config.Option{config.OptResolverLanguages(splitLangs(langs))}
}

// jobsOption returns an option for the --jobs flag when it was set.
func jobsOption(cmd *cobra.Command, jobs int) []config.Option {
	if !cmd.Flags().Changed("jobs") {
		return nil
	}
	return []config.Option{config.OptJobsNumber(jobs)}
}
