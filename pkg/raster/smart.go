package raster

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/units"
)

// analysisResizer implements the smartcrop resizer on top of imaging.
type analysisResizer struct{}

func (analysisResizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), imaging.Lanczos)
}

// BestCrop asks smartcrop for the most interesting region with the aspect
// ratio of size and returns the size window centered on it, clamped to h.
func (b *ImagingBackend) BestCrop(h Handle, size units.PixelSize) (image.Point, error) {
	r, err := unwrap(h)
	if err != nil {
		return image.Point{}, err
	}
	if err := checkSize("smart crop", size); err != nil {
		return image.Point{}, err
	}
	have := r.size()
	if size.Width > have.Width || size.Height > have.Height {
		return image.Point{}, errors.New(errors.ErrCodeGeometry, "smart crop %s larger than %s", size, have)
	}

	analyzer := smartcrop.NewAnalyzer(analysisResizer{})
	best, err := analyzer.FindBestCrop(r.img, size.Width, size.Height)
	if err != nil {
		return image.Point{}, errors.Wrap(errors.ErrCodeBackend, err, "smart crop")
	}
	best = best.Sub(r.img.Bounds().Min)

	center := image.Pt((best.Min.X+best.Max.X)/2, (best.Min.Y+best.Max.Y)/2)
	return image.Pt(
		clamp(center.X-size.Width/2, 0, have.Width-size.Width),
		clamp(center.Y-size.Height/2, 0, have.Height-size.Height),
	), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
