// Package pipeline turns photo files into finished polaroid prints.
//
// It wraps the layout engine with everything a batch run needs: option
// defaults and validation, output naming, a content-addressed output cache,
// bounded parallelism and a per-file report. The CLI is a thin layer on top
// of [Runner.Batch].
//
// # Usage
//
//	runner := pipeline.NewRunner(raster.Default(), cache, nil, logger)
//	report, err := runner.Batch(ctx, files, pipeline.Options{
//	    DPI:       300,
//	    Format:    "tif",
//	    OutputDir: "./polaroid-output/",
//	})
//	if err != nil {
//	    return err // the output directory could not be created
//	}
//	fmt.Println(report.Processed, "printed,", report.Failed, "failed")
//
// A file that fails is recorded in the report and the batch carries on.
package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polaprint/pkg/cache"
	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/polaroid"
	"github.com/matzehuels/polaprint/pkg/templates"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultDPI is the print resolution in dots per inch.
	DefaultDPI = 300

	// DefaultFormat is the output file extension. TIFF is the only format
	// that stores the CMYK samples natively.
	DefaultFormat = "tif"

	// DefaultOutputDir receives the prints when no directory is given.
	DefaultOutputDir = "./polaroid-output/"
)

// SupportedFormats lists the accepted output extensions.
var SupportedFormats = []string{"tif", "tiff", "jpg", "jpeg", "png", "bmp", "gif"}

// =============================================================================
// Options - Batch Configuration
// =============================================================================

// Options configures a batch run.
type Options struct {
	DPI       int    `json:"dpi" toml:"dpi"`
	Format    string `json:"output_format" toml:"output_format"`
	OutputDir string `json:"output_dir" toml:"output_dir"`
	Template  string `json:"template" toml:"template"` // auto, square, horizontal or vertical
	Crop      string `json:"crop" toml:"crop"`         // center or smart
	Jobs      int    `json:"jobs" toml:"jobs"`
	Refresh   bool   `json:"refresh,omitempty" toml:"-"` // ignore cache hits, still record results

	Logger *log.Logger `json:"-" toml:"-"`

	forced    bool
	kind      templates.Kind
	crop      polaroid.CropStrategy
	validated bool
}

// ValidateAndSetDefaults fills zero values with defaults and validates
// every field. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if err := errors.ValidateDPI(o.DPI); err != nil {
		return err
	}

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := errors.ValidateFormat(o.Format, SupportedFormats); err != nil {
		return err
	}
	o.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(o.Format)), ".")

	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if err := errors.ValidatePath(o.OutputDir); err != nil {
		return err
	}

	kind, forced, err := templates.ParseKind(o.Template)
	if err != nil {
		return err
	}
	o.kind, o.forced = kind, forced
	if !forced {
		o.Template = templates.Auto
	} else {
		o.Template = string(kind)
	}

	crop, err := polaroid.ParseCropStrategy(o.Crop)
	if err != nil {
		return err
	}
	o.crop, o.Crop = crop, string(crop)

	if o.Jobs < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "jobs must be positive, got %d", o.Jobs)
	}
	if o.Jobs == 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}

	o.validated = true
	return nil
}

// OutputPath returns where the print for input is written:
// <OutputDir>/<input stem>.<Format>.
func (o *Options) OutputPath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(o.OutputDir, stem+"."+o.Format)
}

// KeyOpts returns the options that distinguish cached prints.
func (o *Options) KeyOpts() cache.PrintKeyOpts {
	return cache.PrintKeyOpts{
		DPI:      o.DPI,
		Format:   o.Format,
		Template: o.Template,
		Crop:     o.Crop,
	}
}

// =============================================================================
// Results
// =============================================================================

// Status is the outcome of one input file.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusCached    Status = "cached"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result describes what happened to one input file.
type Result struct {
	Input    string
	Output   string
	Status   Status
	Template templates.Kind
	Stages   []polaroid.Stage
	Err      error
	Duration time.Duration
}

// Report summarizes a batch run. Results keep the input order.
type Report struct {
	Results   []Result
	Processed int
	Cached    int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

func newReport(results []Result, d time.Duration) *Report {
	r := &Report{Results: results, Duration: d}
	for _, res := range results {
		switch res.Status {
		case StatusProcessed:
			r.Processed++
		case StatusCached:
			r.Cached++
		case StatusSkipped:
			r.Skipped++
		case StatusFailed:
			r.Failed++
		}
	}
	return r
}

// Total returns the number of inputs in the batch.
func (r *Report) Total() int { return len(r.Results) }
