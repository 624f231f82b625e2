package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tamirms/permsort"
	permerrors "github.com/tamirms/permsort/errors"
	"github.com/tamirms/permsort/internal/stats"
)

// samplerInterval is the heap polling period during a size batch.
const samplerInterval = 10 * time.Millisecond

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare store strategies across file sizes",
	Long: `For every size 10^p with p in [min-pow, max-pow], sort reps freshly
shuffled record files with each selected strategy and record the time spent
in the sort. Results go to <out-dir>/<strategy>.dat as "p mean mean+stddev"
lines, in milliseconds.

Store setup and teardown are outside the timed region. Sizes whose
multi-handle pool would exceed the open-file limit are skipped.

Example:
  permbench bench --strategy both --min-pow 0 --max-pow 3 --reps 100
  permbench bench --config bench.yaml --metrics-file permbench.prom --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := benchConfigFromFlags(cmd)
		if err != nil {
			return err
		}
		report, err := runBench(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), report)
	},
}

func init() {
	f := benchCmd.Flags()
	f.String("config", "", "YAML config file; flags override its values")
	f.StringSlice("strategy", []string{strategyBoth}, "Store strategies: single, multi, or both")
	f.Int("min-pow", 0, "Smallest size as a power of ten")
	f.Int("max-pow", 3, "Largest size as a power of ten")
	f.Int("reps", 100, "Repetitions per size")
	f.Uint64("seed", 1, "Base seed for fixture shuffles")
	f.Int("workers", runtime.GOMAXPROCS(0), "Concurrent fixture writers")
	f.String("out-dir", "./out", "Directory for .dat files, reports, and fixtures")
	f.String("metrics-file", "", "Write Prometheus text-format metrics to this file")
	f.Bool("json", false, "Write a JSON report to the output directory")
	f.Bool("check", false, "Decode every record read and compare it with the permutation")
	rootCmd.AddCommand(benchCmd)
}

// benchConfigFromFlags loads the config file, if any, and applies every
// flag the user set explicitly.
func benchConfigFromFlags(cmd *cobra.Command) (*benchConfig, error) {
	f := cmd.Flags()
	cfg := defaultBenchConfig()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := loadBenchConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f.Changed("strategy") {
		cfg.Strategies, _ = f.GetStringSlice("strategy")
	}
	if f.Changed("min-pow") {
		cfg.MinPow, _ = f.GetInt("min-pow")
	}
	if f.Changed("max-pow") {
		cfg.MaxPow, _ = f.GetInt("max-pow")
	}
	if f.Changed("reps") {
		cfg.Reps, _ = f.GetInt("reps")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("out-dir") {
		cfg.OutDir, _ = f.GetString("out-dir")
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile, _ = f.GetString("metrics-file")
	}
	if f.Changed("json") {
		cfg.JSON, _ = f.GetBool("json")
	}
	if f.Changed("check") {
		cfg.RecordCheck, _ = f.GetBool("check")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type benchRunner struct {
	cfg     *benchConfig
	log     *slog.Logger
	metrics *benchMetrics
	workDir string
}

// runOutcome is one timed sort.
type runOutcome struct {
	stats     permsort.Stats
	heapBytes uint64
	digest    uint64
}

// runBench executes the benchmark described by cfg and writes its outputs.
func runBench(ctx context.Context, cfg *benchConfig, log *slog.Logger) (*benchReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	strategies, err := expandStrategies(cfg.Strategies)
	if err != nil {
		return nil, err
	}

	runID := ksuid.New().String()
	log = log.With("run_id", runID)
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	workDir, err := os.MkdirTemp(cfg.OutDir, "fixtures-"+runID+"-")
	if err != nil {
		return nil, fmt.Errorf("create fixture directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	r := &benchRunner{cfg: cfg, log: log, metrics: newBenchMetrics(), workDir: workDir}
	report := &benchReport{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		Seed:      cfg.Seed,
		MinPow:    cfg.MinPow,
		MaxPow:    cfg.MaxPow,
		Reps:      cfg.Reps,
	}
	log.Info("bench started", "strategies", strategies, "min_pow", cfg.MinPow,
		"max_pow", cfg.MaxPow, "reps", cfg.Reps, "seed", cfg.Seed)

	skipped := false
	for _, strategy := range strategies {
		sr, err := r.runStrategy(ctx, strategy)
		if err != nil {
			return nil, err
		}
		for _, s := range sr.Sizes {
			if s.Skipped != "" {
				skipped = true
			}
		}
		datPath := filepath.Join(cfg.OutDir, strategy+".dat")
		if err := writeDat(datPath, sr.Sizes); err != nil {
			return nil, err
		}
		log.Info("results written", "strategy", strategy, "path", datPath, "digest", sr.Digest)
		report.Strategies = append(report.Strategies, sr)
	}

	if len(report.Strategies) > 1 && !skipped {
		match := true
		for _, sr := range report.Strategies[1:] {
			match = match && sr.Digest == report.Strategies[0].Digest
		}
		report.DigestsMatch = &match
		if !match {
			log.Warn("strategies produced different files")
		}
	}

	report.Elapsed = time.Since(report.StartedAt)
	report.MaxRSSBytes = maxRSS()

	if cfg.MetricsFile != "" {
		if err := r.metrics.write(cfg.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
		log.Info("metrics written", "path", cfg.MetricsFile)
	}
	if cfg.JSON {
		path := filepath.Join(cfg.OutDir, "report-"+runID+".json")
		if err := writeReport(path, report); err != nil {
			return nil, err
		}
		log.Info("report written", "path", path)
	}
	log.Info("bench finished", "elapsed", report.Elapsed, "max_rss_bytes", report.MaxRSSBytes)
	return report, nil
}

func (r *benchRunner) runStrategy(ctx context.Context, strategy string) (strategyResult, error) {
	sr := strategyResult{Strategy: strategy}
	fold := newDigestFold()
	for pow := r.cfg.MinPow; pow <= r.cfg.MaxPow; pow++ {
		res, err := r.runSize(ctx, strategy, pow, fold)
		if err != nil {
			if strategy == strategyMulti && errors.Is(err, permerrors.ErrIOUnavailable) {
				// Larger sizes need even more descriptors.
				r.log.Warn("size skipped", "strategy", strategy, "pow", pow, "error", err)
				for p := pow; p <= r.cfg.MaxPow; p++ {
					sr.Sizes = append(sr.Sizes, sizeResult{Pow: p, Records: pow10(p), Skipped: err.Error()})
				}
				break
			}
			return sr, fmt.Errorf("%s store, 10^%d records: %w", strategy, pow, err)
		}
		sr.Sizes = append(sr.Sizes, res)
	}
	sr.Digest = fmt.Sprintf("%016x", fold.sum())
	return sr, nil
}

// runSize writes the fixtures for one size concurrently, then sorts them one
// at a time.
func (r *benchRunner) runSize(ctx context.Context, strategy string, pow int, fold *digestFold) (res sizeResult, err error) {
	n := pow10(pow)
	res = sizeResult{Pow: pow, Records: n, Reps: r.cfg.Reps}
	log := r.log.With("strategy", strategy, "pow", pow, "records", n)

	dir := filepath.Join(r.workDir, strategy, "p"+strconv.Itoa(pow))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create fixture directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	paths, err := r.prepareFixtures(ctx, dir, pow, n)
	if err != nil {
		return res, err
	}
	log.Debug("fixtures written", "count", len(paths))

	times := make([]float64, 0, r.cfg.Reps)
	heaps := make([]float64, 0, r.cfg.Reps)
	var swaps, seeks, setupSeeks int
	sampler := startPeakSampler(samplerInterval)
	defer func() { res.PeakHeapBytes = sampler.stop() }()

	for rep, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out, err := r.runOnce(strategy, path, pow)
		if err != nil {
			return res, fmt.Errorf("rep %d: %w", rep, err)
		}
		fold.add(out.digest)
		times = append(times, float64(out.stats.Elapsed)/float64(time.Millisecond))
		heaps = append(heaps, float64(out.heapBytes))
		swaps += out.stats.Swaps
		seeks += out.stats.Store.Seeks
		setupSeeks += out.stats.Store.SetupSeeks
	}

	reps := float64(len(paths))
	res.TimeMS = stats.Summarize(times)
	res.HeapBytes = stats.Summarize(heaps)
	res.Swaps = float64(swaps) / reps
	res.Seeks = float64(seeks) / reps
	res.SetupSeeks = float64(setupSeeks) / reps
	log.Info("size measured", "mean_ms", res.TimeMS.Mean, "stddev_ms", res.TimeMS.StdDev,
		"swaps_mean", res.Swaps, "seeks_mean", res.Seeks)
	return res, nil
}

// prepareFixtures writes one shuffled record file per repetition, bounded
// to cfg.Workers concurrent writers.
func (r *benchRunner) prepareFixtures(ctx context.Context, dir string, pow, n int) ([]string, error) {
	paths := make([]string, r.cfg.Reps)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for rep := range paths {
		paths[rep] = filepath.Join(dir, fmt.Sprintf("rep%04d.txt", rep))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perm := permsort.Shuffle(n, repSeed(r.cfg.Seed, pow, rep))
			if err := permsort.CreateRecordFile(paths[rep], perm); err != nil {
				return fmt.Errorf("fixture %d: %w", rep, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// runOnce sorts the fixture at path. Opening and closing the store happen
// outside the timed region, which covers SortInPlace alone.
func (r *benchRunner) runOnce(strategy, path string, pow int) (out runOutcome, err error) {
	perm, err := permsort.ReadPermutation(path)
	if err != nil {
		return out, fmt.Errorf("read permutation: %w", err)
	}
	if err := permsort.ValidatePermutation(perm); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	store, err := openStore(strategy, path, permsort.RecordWidth(len(perm)), len(perm))
	if err != nil {
		return out, err
	}

	opts := []permsort.SortOption{permsort.WithLogger(r.log)}
	if r.cfg.RecordCheck {
		opts = append(opts, permsort.WithRecordCheck())
	}

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	st, sortErr := permsort.SortInPlace(store, perm, opts...)
	runtime.ReadMemStats(&after)

	if err := errors.Join(sortErr, store.Close()); err != nil {
		return out, err
	}
	if err := permsort.VerifySorted(path); err != nil {
		return out, err
	}
	digest, err := permsort.Digest(path)
	if err != nil {
		return out, err
	}

	r.metrics.observe(strategy, strconv.Itoa(pow), st)
	return runOutcome{
		stats:     st,
		heapBytes: after.TotalAlloc - before.TotalAlloc,
		digest:    digest,
	}, nil
}

func pow10(p int) int {
	n := 1
	for range p {
		n *= 10
	}
	return n
}
