// Package pkg provides the core libraries for polaprint, which lays out
// photos as polaroid-style prints for a photo lab.
//
// # Overview
//
// A print is a photo behind a thin gray border, centered on a white matte
// (the frame), which is itself centered on a colored page. All physical
// dimensions are defined in millimeters and converted to pixels at the
// requested resolution. The pkg directory is organized into these areas:
//
//  1. [units] and [templates] - millimeter geometry and the three layouts
//  2. [polaroid] - the layout engine for a single print
//  3. [raster] - the pixel backend the engine drives
//  4. [pipeline] - batch orchestration with caching and bounded parallelism
//  5. [cache], [config], [errors], [observability], [buildinfo] - support
//
// # Architecture
//
// The typical data flow through polaprint:
//
//	photo file
//	     ↓
//	[polaroid.LoadPredict] (decode, EXIF orientation, template choice)
//	     ↓
//	Resize → AddBorder → AddFrame → AddPage (pixel geometry from [templates])
//	     ↓
//	Write (density, CMYK, quality 100, encode)
//	     ↓
//	<output-dir>/<stem>.tif
//
// # Quick Start
//
// Lay out one photo:
//
//	import (
//	    "github.com/matzehuels/polaprint/pkg/polaroid"
//	    "github.com/matzehuels/polaprint/pkg/raster"
//	)
//
//	p, err := polaroid.LoadPredict(raster.Default(), "beach.jpg", 300)
//	if err != nil {
//	    return err
//	}
//	if err := p.Layout(); err != nil {
//	    return err
//	}
//	return p.Write("prints/beach.tif")
//
// Lay out a batch with caching:
//
//	runner := pipeline.NewRunner(raster.Default(), fileCache, nil, logger)
//	report, err := runner.Batch(ctx, files, pipeline.Options{DPI: 300})
//
// # Main Packages
//
// [units] - Length (millimeters), Resolution (dpi) and generic Dimensions
// with the rounding pixel conversion every other package relies on.
//
// [templates] - The square, horizontal and vertical presets and the
// aspect-ratio classifier that picks one per photo.
//
// [polaroid] - The engine. Each step reads the current raster size from the
// backend, computes the next geometry and records it as a Stage.
//
// [raster] - The Backend interface and its implementation on
// disintegration/imaging, including a CMYK TIFF writer and a smartcrop
// based crop analyzer.
//
// [pipeline] - Options and defaults, output naming, the output cache, and
// Runner.Batch which fans files out over an errgroup.
//
// [units]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/units
// [templates]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/templates
// [polaroid]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/polaroid
// [polaroid.LoadPredict]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/polaroid#LoadPredict
// [raster]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/raster
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/polaprint/pkg/buildinfo
package pkg
