package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/tamirms/permsort/internal/stats"
)

var reportJSON = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// sizeResult aggregates the repetitions of one strategy at one size.
type sizeResult struct {
	Pow           int           `json:"pow"`
	Records       int           `json:"records"`
	Reps          int           `json:"reps"`
	TimeMS        stats.Summary `json:"time_ms"`
	HeapBytes     stats.Summary `json:"heap_bytes"`
	PeakHeapBytes uint64        `json:"peak_heap_bytes"`
	Swaps         float64       `json:"swaps_mean"`
	Seeks         float64       `json:"seeks_mean"`
	SetupSeeks    float64       `json:"setup_seeks_mean"`
	Skipped       string        `json:"skipped,omitempty"`
}

type strategyResult struct {
	Strategy string       `json:"strategy"`
	Sizes    []sizeResult `json:"sizes"`
	// Digest folds the digest of every sorted file, in run order.
	Digest string `json:"digest"`
}

type benchReport struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	Elapsed      time.Duration    `json:"elapsed_ns"`
	Seed         uint64           `json:"seed"`
	MinPow       int              `json:"min_pow"`
	MaxPow       int              `json:"max_pow"`
	Reps         int              `json:"reps"`
	Strategies   []strategyResult `json:"strategies"`
	DigestsMatch *bool            `json:"digests_match,omitempty"`
	MaxRSSBytes  uint64           `json:"max_rss_bytes"`
}

// writeDat writes one "p mean mean+stddev" line per measured size, the
// layout gnuplot scripts for the harness expect.
func writeDat(path string, sizes []sizeResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	for _, s := range sizes {
		if s.Skipped != "" {
			continue
		}
		fmt.Fprintf(w, "%d %g %g\n", s.Pow, s.TimeMS.Mean, s.TimeMS.Upper())
	}
	return w.Flush()
}

func writeReport(path string, r *benchReport) error {
	data, err := reportJSON.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// printSummary renders the report as an aligned table.
func printSummary(out io.Writer, r *benchReport) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tPOW\tRECORDS\tMEAN ms\tSTDDEV ms\tSWAPS\tSEEKS\tSETUP SEEKS\tPEAK HEAP")
	for _, sr := range r.Strategies {
		for _, s := range sr.Sizes {
			if s.Skipped != "" {
				fmt.Fprintf(tw, "%s\t%d\t%d\tskipped: %s\n", sr.Strategy, s.Pow, s.Records, s.Skipped)
				continue
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.4f\t%.0f\t%.0f\t%.0f\t%d\n",
				sr.Strategy, s.Pow, s.Records, s.TimeMS.Mean, s.TimeMS.StdDev,
				s.Swaps, s.Seeks, s.SetupSeeks, s.PeakHeapBytes)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "run %s: max RSS %d bytes\n", r.RunID, r.MaxRSSBytes)
	if r.DigestsMatch != nil {
		fmt.Fprintf(out, "strategies produced identical files: %t\n", *r.DigestsMatch)
	}
	return nil
}
