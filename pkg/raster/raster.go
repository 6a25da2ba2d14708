// Package raster defines the pixel-mutation capabilities the layout engine
// needs and provides an implementation on top of disintegration/imaging.
//
// The engine never touches pixels itself. It computes sizes and offsets and
// hands them to a [Backend] together with an opaque [Handle]. Offsets follow
// canvas conventions: a crop offset is the top-left corner of the kept window,
// an extend offset is the position of the new canvas origin relative to the
// existing content (so content moves to the negated offset).
//
// # Errors
//
// Every Backend method reports failures as *errors.Error with one of the
// backend codes (DECODE_ERROR, ENCODE_ERROR, GEOMETRY_ERROR, BACKEND_ERROR)
// and the underlying library error as the cause.
package raster

import (
	"image"
	"image/color"
	"sync"

	"github.com/matzehuels/polaprint/pkg/units"
)

// Handle is an opaque raster owned by the Backend that created it.
// Handles from one Backend must not be passed to another.
type Handle any

// Filter selects the resampling filter used by Resize.
type Filter int

const (
	// FilterBox averages source pixels covering each destination pixel.
	FilterBox Filter = iota
	// FilterLanczos is a sharper filter used for analysis thumbnails.
	FilterLanczos
)

// CompositeOp selects how source pixels combine with destination pixels.
type CompositeOp int

const (
	// OpOver blends the source over the destination using source alpha.
	OpOver CompositeOp = iota
	// OpSrcOver is OpOver under its Porter-Duff name, used for border paint.
	OpSrcOver
	// OpCopy replaces destination pixels with source pixels.
	OpCopy
)

// Colorspace names a pixel color model.
type Colorspace string

const (
	ColorspaceRGB  Colorspace = "sRGB"
	ColorspaceCMYK Colorspace = "CMYK"
)

// PropertyDensity is the property key holding "<x>x<y>" dots per inch.
const PropertyDensity = "density"

// Backend performs raster operations on handles it owns.
type Backend interface {
	Decode(path string) (Handle, error)
	AutoOrient(h Handle) error
	Dimensions(h Handle) (units.PixelSize, error)
	Resize(h Handle, size units.PixelSize, filter Filter) error
	Crop(h Handle, size units.PixelSize, offset image.Point) error
	Border(h Handle, c color.Color, thickness units.PixelSize, op CompositeOp) error
	ExtendCanvas(h Handle, size units.PixelSize, offset image.Point, fill color.Color) error
	NewCanvas(size units.PixelSize, fill color.Color) (Handle, error)
	Composite(dst, src Handle, op CompositeOp, offset image.Point) error
	SetProperty(h Handle, key, value string) error
	Property(h Handle, key string) (string, bool)
	ConvertColorspace(h Handle, cs Colorspace) error
	Colorspace(h Handle) (Colorspace, error)
	SetCompressionQuality(h Handle, quality int) error
	Encode(h Handle, path string) error
}

// CropAnalyzer is implemented by backends that can suggest a crop window
// based on image content.
type CropAnalyzer interface {
	// BestCrop returns the top-left corner of the most interesting window of
	// the given size inside h. The window always lies within h.
	BestCrop(h Handle, size units.PixelSize) (image.Point, error)
}

var defaultBackend = sync.OnceValue(func() Backend {
	return NewImagingBackend()
})

// Default returns the process-wide backend, creating it on first use.
// It is never torn down.
func Default() Backend {
	return defaultBackend()
}
