package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/latencyhq/hdrhistogram"
)

func newRecordCmd() *cobra.Command {
	var expectedInterval int64

	cmd := &cobra.Command{
		Use:   "record [file]",
		Short: "Record newline-delimited integer samples and print a percentile summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(appFs, cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			h, err := hdrhistogram.New(cfg.LowestTrackableValue, cfg.HighestTrackableValue, cfg.SignificantFigures)
			if err != nil {
				return fmt.Errorf("constructing histogram: %w", err)
			}

			f, err := appFs.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			n, skipped, err := recordSamples(h, f, expectedInterval)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"recorded": n, "skipped": skipped}).Debug("finished recording samples")

			printSummary(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().Int64Var(&expectedInterval, "expected-interval", 0,
		"when > 0, apply coordinated-omission correction assuming this expected interval between samples")

	return cmd
}

// recordSamples reads one integer sample per line from r and records it
// into h, returning the number of samples recorded and the number of
// lines skipped (unparsable, or rejected as out of range). Blank lines are
// ignored and not counted as skipped.
func recordSamples(h *hdrhistogram.Histogram, r io.Reader, expectedInterval int64) (recorded, skipped int64, err error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		v, parseErr := strconv.ParseInt(line, 10, 64)
		if parseErr != nil {
			log.WithField("line", line).Debug("skipping unparsable sample")
			skipped++
			continue
		}

		var ok bool
		if expectedInterval > 0 {
			ok = h.RecordCorrectedValue(v, expectedInterval)
		} else {
			ok = h.RecordValue(v)
		}
		if !ok {
			log.WithField("value", v).Debug("skipping out-of-range sample")
			skipped++
			continue
		}
		recorded++
	}
	return recorded, skipped, scanner.Err()
}

// printSummary writes a terminal-friendly percentile report to w,
// colorizing the header when stdout is a real terminal. w is wrapped with
// go-colorable when it is os.Stdout so ANSI codes render correctly on
// Windows consoles; writes to any other io.Writer (e.g. a test buffer)
// pass through unmodified.
func printSummary(w io.Writer, h *hdrhistogram.Histogram) {
	out := w
	if w == stdout {
		out = colorable.NewColorableStdout()
	}

	header := color.New(color.FgCyan, color.Bold)
	header.DisableColor()
	if colorOutputEnabled() {
		header.EnableColor()
	}

	header.Fprintln(out, "HDR Histogram Summary")
	fmt.Fprintf(out, "  count:  %d\n", h.TotalCount())
	fmt.Fprintf(out, "  min:    %d\n", h.Min())
	fmt.Fprintf(out, "  max:    %d\n", h.Max())
	fmt.Fprintf(out, "  mean:   %.2f\n", h.Mean())
	fmt.Fprintf(out, "  stddev: %.2f\n", h.StdDev())

	for _, p := range []float64{50, 90, 95, 99, 99.9} {
		fmt.Fprintf(out, "  p%-6v %d\n", p, h.ValueAtPercentile(p))
	}
}
