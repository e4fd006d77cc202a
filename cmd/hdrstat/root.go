package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	appFs   = afero.NewOsFs()
	cfgFile string
	verbose bool
	noColor bool

	// stdout is compared by identity in printSummary to decide whether to
	// wrap the writer with go-colorable; it is a var (not a literal
	// os.Stdout reference) purely so tests can't accidentally match it.
	stdout io.Writer = os.Stdout
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hdrstat",
		Short: "Record samples into an HDR histogram and report percentiles",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "histogram geometry config file (YAML)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized output")

	root.AddCommand(newRecordCmd())
	return root
}

// colorOutputEnabled reports whether percentile output should be
// colorized: only when stdout is a real terminal and --no-color was not
// passed. This mirrors how terminal tools in the example corpus gate
// ANSI output on isatty rather than always emitting escape codes.
func colorOutputEnabled() bool {
	if noColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
