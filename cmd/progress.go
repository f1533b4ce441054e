package cmd

import (
	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnvern/pkg/resolver"
)

// newProgressBar creates a progress bar that counts resolved names.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

// newNamesProgress creates a progress bar for a walk over names and the
// option that feeds it. Duplicates and blank names are not counted, the
// same way the walk skips them.
func newNamesProgress(names []string) (*pb.ProgressBar, resolver.Option) {
	bar := newProgressBar(len(resolver.UniqueNames(names)), "names: ")
	return bar, resolver.OptProgress(progressFunc(bar))
}

// progressFunc adapts a progress bar to resolver progress reports.
func progressFunc(bar *pb.ProgressBar) func(done, total int) {
	return func(done, total int) {
		bar.SetTotal(int64(total))
		bar.SetCurrent(int64(done))
	}
}
