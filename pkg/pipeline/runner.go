package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/polaprint/pkg/cache"
	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/observability"
	"github.com/matzehuels/polaprint/pkg/polaroid"
	"github.com/matzehuels/polaprint/pkg/raster"
	"github.com/matzehuels/polaprint/pkg/templates"
	"github.com/matzehuels/polaprint/pkg/units"
)

const cacheKeyType = "print"

// Runner lays out prints with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// batches with different options.
type Runner struct {
	Backend raster.Backend
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner. Nil arguments fall back to the default
// raster backend, a NullCache, a DefaultKeyer and the default logger.
func NewRunner(backend raster.Backend, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if backend == nil {
		backend = raster.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Backend: backend,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Prepare validates opts and creates the output directory.
func (r *Runner) Prepare(opts *Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", opts.OutputDir)
	}
	return nil
}

// Batch prints every input with at most opts.Jobs files in flight.
//
// Per-file failures are recorded in the report and do not stop the batch.
// An error is returned only when the run could not start (invalid options,
// output directory not creatable) or ctx was canceled; in the latter case
// the partial report is returned as well.
func (r *Runner) Batch(ctx context.Context, inputs []string, opts Options) (*Report, error) {
	if err := r.Prepare(&opts); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	r.warnCollisions(inputs, &opts, logger)

	start := time.Now()
	observability.Pipeline().OnBatchStart(ctx, len(inputs))

	results := make([]Result, len(inputs))
	var g errgroup.Group
	g.SetLimit(opts.Jobs)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Input: input, Status: StatusFailed, Err: err}
				return err
			}
			results[i] = r.Process(ctx, input, opts)
			logResult(logger, results[i])
			return nil
		})
	}
	err := g.Wait()

	report := newReport(results, time.Since(start))
	observability.Pipeline().OnBatchComplete(ctx, report.Processed, report.Cached, report.Skipped, report.Failed, report.Duration)
	logger.Info("batch finished",
		"processed", report.Processed,
		"cached", report.Cached,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration.Round(time.Millisecond))

	if err != nil {
		return report, err
	}
	return report, nil
}

// Process prints a single input. opts should already have been passed to
// Prepare; Process validates it again but does not create the output
// directory.
func (r *Runner) Process(ctx context.Context, input string, opts Options) (res Result) {
	start := time.Now()
	res = Result{Input: input}
	observability.Pipeline().OnFileStart(ctx, input)
	defer func() {
		res.Duration = time.Since(start)
		observability.Pipeline().OnFileComplete(ctx, input, string(res.Template), res.Duration, res.Err)
	}()

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return failed(res, err)
	}
	res.Output = opts.OutputPath(input)

	if err := errors.ValidatePath(input); err != nil {
		res.Status, res.Err = StatusSkipped, err
		return res
	}
	if info, err := os.Stat(input); err != nil || !info.Mode().IsRegular() {
		res.Status = StatusSkipped
		res.Err = errors.New(errors.ErrCodeInvalidPath, "%s is not a file", input)
		return res
	}

	key := r.cacheKey(input, &opts)
	if entry, ok := r.lookup(ctx, key, res.Output, opts.Refresh); ok {
		res.Status, res.Template = StatusCached, entry.Template
		return res
	}

	p, err := r.load(input, &opts)
	if err != nil {
		return failed(res, fmt.Errorf("load: %w", err))
	}
	res.Template = p.Template().Kind

	steps := append(p.Steps(), polaroid.NamedStep{Name: "write", Run: func() error { return p.Write(res.Output) }})
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return failed(res, err)
		}
		t0 := time.Now()
		err := step.Run()
		size := ""
		if err == nil {
			if s, serr := p.Size(); serr == nil {
				size = s.String()
			}
		}
		observability.Stage().OnStage(ctx, input, step.Name, size, time.Since(t0), err)
		if err != nil {
			return failed(res, fmt.Errorf("%s: %w", step.Name, err))
		}
	}

	res.Status = StatusProcessed
	res.Stages = p.Stages()
	r.store(ctx, key, res)
	return res
}

func failed(res Result, err error) Result {
	res.Status, res.Err = StatusFailed, err
	return res
}

func (r *Runner) load(input string, opts *Options) (*polaroid.Polaroid, error) {
	dpi := units.Resolution(opts.DPI)
	popts := []polaroid.Option{
		polaroid.WithCrop(opts.crop),
		polaroid.WithLogger(r.logger(*opts).With("file", input)),
	}
	if !opts.forced {
		return polaroid.LoadPredict(r.Backend, input, dpi, popts...)
	}
	tmpl, err := templates.ForKind(opts.kind)
	if err != nil {
		return nil, err
	}
	p := polaroid.New(r.Backend, tmpl, dpi, popts...)
	if err := p.Load(input); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// warnCollisions logs inputs whose prints would land on the same path,
// e.g. beach.jpg and beach.png.
func (r *Runner) warnCollisions(inputs []string, opts *Options, logger *log.Logger) {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := opts.OutputPath(in)
		if prev, ok := seen[out]; ok && prev != in {
			logger.Warn("output name collision, last write wins", "output", out, "inputs", []string{prev, in})
			continue
		}
		seen[out] = in
	}
}

func logResult(logger *log.Logger, res Result) {
	switch res.Status {
	case StatusProcessed:
		logger.Info("printed", "file", res.Input, "output", res.Output,
			"template", res.Template, "duration", res.Duration.Round(time.Millisecond))
	case StatusCached:
		logger.Info("up to date", "file", res.Input, "output", res.Output)
	case StatusSkipped:
		logger.Warn("skipped", "file", res.Input, "reason", errors.UserMessage(res.Err))
	case StatusFailed:
		logger.Error("failed", "file", res.Input, "err", errors.UserMessage(res.Err))
	}
}

// =============================================================================
// Output Cache
// =============================================================================

type cacheEntry struct {
	Output     string         `json:"output"`
	OutputHash string         `json:"output_hash"`
	Template   templates.Kind `json:"template"`
}

// cacheKey returns "" when the input cannot be hashed; caching is then
// skipped for this file.
func (r *Runner) cacheKey(input string, opts *Options) string {
	h, err := cache.HashFile(input)
	if err != nil {
		return ""
	}
	return r.Keyer.PrintKey(h, opts.KeyOpts())
}

// lookup reports a hit only if the recorded output still exists at output
// with the recorded content.
func (r *Runner) lookup(ctx context.Context, key, output string, refresh bool) (cacheEntry, bool) {
	var entry cacheEntry
	if key == "" || refresh {
		return entry, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil || entry.Output != output {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return entry, false
	}
	if h, err := cache.HashFile(output); err != nil || h != entry.OutputHash {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return entry, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return entry, true
}

func (r *Runner) store(ctx context.Context, key string, res Result) {
	if key == "" {
		return
	}
	h, err := cache.HashFile(res.Output)
	if err != nil {
		r.Logger.Warn("cache write skipped", "output", res.Output, "err", err)
		return
	}
	data, err := json.Marshal(cacheEntry{Output: res.Output, OutputHash: h, Template: res.Template})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
