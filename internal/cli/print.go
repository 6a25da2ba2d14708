package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/polaprint/pkg/config"
	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/pipeline"
	"github.com/matzehuels/polaprint/pkg/templates"
)

// printFlags holds the root command's flag values.
type printFlags struct {
	dpi      int
	format   string
	template string
	crop     string
	jobs     int
	noCache  bool
	refresh  bool
	config   string
	logFile  string
}

// printCommand creates the command that lays out photos as prints.
func (c *CLI) printCommand() *cobra.Command {
	var f printFlags

	cmd := &cobra.Command{
		Use:   "polaprint FILE... [-- OUTPUT_DIR]",
		Short: "Lay out photos as polaroid-style prints",
		Long: `Polaprint lays out each photo as a polaroid-style print ready for a photo lab.

Every photo is resized to fill the picture area of a square, horizontal or
vertical template (chosen from its aspect ratio), given a thin gray border,
centered on a white matte and placed on a colored page. The result is
written in CMYK at the requested resolution.

The output directory is the single argument after "--" and defaults to
` + pipeline.DefaultOutputDir + `. Each print keeps its photo's name with the
output format as extension.`,
		Example: `  polaprint beach.jpg
  polaprint --dpi 600 -f png *.jpg -- ~/prints
  polaprint --template square --crop smart portrait.jpg`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrint(cmd, args, &f)
		},
	}

	bindPrintFlags(cmd.Flags(), &f)

	_ = cmd.RegisterFlagCompletionFunc("template", cobra.FixedCompletions(
		[]string{templates.Auto, string(templates.KindSquare), string(templates.KindHorizontal), string(templates.KindVertical)},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("crop", cobra.FixedCompletions(
		[]string{"center", "smart"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("output-format", cobra.FixedCompletions(
		pipeline.SupportedFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// bindPrintFlags registers the print flags on flags, storing values in f.
func bindPrintFlags(flags *pflag.FlagSet, f *printFlags) {
	flags.IntVar(&f.dpi, "dpi", pipeline.DefaultDPI, "print resolution in dots per inch")
	flags.StringVarP(&f.format, "output-format", "f", pipeline.DefaultFormat, "output format (tif, tiff, jpg, jpeg, png, bmp, gif)")
	flags.StringVarP(&f.template, "template", "t", templates.Auto, "template: auto, square, horizontal or vertical")
	flags.StringVar(&f.crop, "crop", "center", "crop placement: center or smart")
	flags.IntVarP(&f.jobs, "jobs", "j", 0, "photos processed in parallel (default: number of CPUs)")
	flags.BoolVar(&f.noCache, "no-cache", false, "always re-render, even if an identical print exists")
	flags.BoolVar(&f.refresh, "refresh", false, "re-render every photo but keep recording results in the cache")
	flags.StringVar(&f.config, "config", "", "config file (default: $XDG_CONFIG_HOME/polaprint/config.toml)")
	flags.StringVar(&f.logFile, "log-file", "", "also write logs to this file, rotated at 10 MB")
}

func (c *CLI) runPrint(cmd *cobra.Command, args []string, f *printFlags) error {
	files, outDir, err := splitArgs(args, cmd.ArgsLenAtDash())
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}

	logFile := f.logFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	if err := c.attachLogFile(logFile); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "open log file %s", logFile)
	}

	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}

	opts := mergeOptions(cmd.Flags(), f, cfg, outDir)
	opts.Logger = logger

	noCache := f.noCache
	if !cmd.Flags().Changed("no-cache") && cfg.NoCache {
		noCache = true
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	report, err := runner.Batch(ctx, files, opts)
	if report != nil {
		printer{w: c.Out}.report(report, displayDir(outDir, cfg))
		prog.done(fmt.Sprintf("Printed %d of %d photos", report.Processed+report.Cached, report.Total()))
	}
	return err
}

// splitArgs separates input files from the output directory given after
// "--". dash is the index reported by cobra's ArgsLenAtDash, -1 if absent.
func splitArgs(args []string, dash int) (files []string, outDir string, err error) {
	if dash < 0 {
		return args, "", nil
	}
	files, rest := args[:dash], args[dash:]
	if len(files) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "no input files given before --")
	}
	switch len(rest) {
	case 0:
		return files, "", nil
	case 1:
		return files, rest[0], nil
	default:
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "expected one output directory after --, got %d", len(rest))
	}
}

// mergeOptions builds pipeline options from flags, falling back to the
// config file for every flag the user did not pass explicitly.
func mergeOptions(flags *pflag.FlagSet, f *printFlags, cfg *config.Config, outDir string) pipeline.Options {
	opts := pipeline.Options{
		DPI:       f.dpi,
		Format:    f.format,
		OutputDir: outDir,
		Template:  f.template,
		Crop:      f.crop,
		Jobs:      f.jobs,
		Refresh:   f.refresh,
	}
	if !flags.Changed("dpi") && cfg.DPI != 0 {
		opts.DPI = cfg.DPI
	}
	if !flags.Changed("output-format") && cfg.OutputFormat != "" {
		opts.Format = cfg.OutputFormat
	}
	if !flags.Changed("template") && cfg.Template != "" {
		opts.Template = cfg.Template
	}
	if !flags.Changed("crop") && cfg.Crop != "" {
		opts.Crop = cfg.Crop
	}
	if !flags.Changed("jobs") && cfg.Jobs != 0 {
		opts.Jobs = cfg.Jobs
	}
	if opts.OutputDir == "" {
		opts.OutputDir = cfg.OutputDir
	}
	return opts
}

func displayDir(outDir string, cfg *config.Config) string {
	switch {
	case outDir != "":
		return outDir
	case cfg.OutputDir != "":
		return cfg.OutputDir
	default:
		return pipeline.DefaultOutputDir
	}
}
