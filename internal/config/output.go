package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// UnitResult is one compiled unit's outcome, printed by PrintSummary once
// the whole invocation finishes.
type UnitResult struct {
	Path       string
	ObjectPath string
	Err        error
}

// PrintSummary reports the outcome of every unit in the batch: successes
// with their emitted object path, failures with their error, in the same
// "✓/✗ path — detail" shape the corpus's writer summaries use.
func PrintSummary(results []UnitResult) {
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(os.Stdout, "✓ %s — %s\n", r.Path, r.ObjectPath)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d units failed\n", failed, len(results))
	}
}

// PrintFatal reports an error that aborted the whole invocation before any
// unit could be compiled (bad flags, no files resolved).
func PrintFatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// PrintUsage renders the CLI's flag usage banner.
func PrintUsage(fs *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "\nUsage: thrushc [flags] <file1> <file2|glob> ...\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	fs.PrintDefaults()
}
