package polaroid

import (
	"image"
	"math"

	"github.com/matzehuels/polaprint/pkg/units"
)

// ResizePlan returns the size a source of pixel size src is scaled to so it
// covers target, where areaRatio is the physical width/height ratio of the
// template's photo area.
//
// A source wider than the area binds on height: the width follows from the
// source ratio, truncated. Otherwise width binds and the height is rounded.
// Neither side is ever smaller than target, so the following crop stays in
// bounds even when truncation would lose a pixel.
func ResizePlan(src units.PixelSize, areaRatio float64, target units.PixelSize) units.PixelSize {
	ratio := src.Ratio()

	var plan units.PixelSize
	if ratio > areaRatio {
		plan = units.Dim(int(float64(target.Height)*ratio), target.Height)
	} else {
		plan = units.Dim(target.Width, int(math.Round(float64(target.Width)/ratio)))
	}
	plan.Width = max(plan.Width, target.Width)
	plan.Height = max(plan.Height, target.Height)
	return plan
}

// CropOffset returns the top-left corner of a target window centered in
// resized. An axis where resized is not larger than target gets 0.
func CropOffset(resized, target units.PixelSize) image.Point {
	return image.Pt(
		max(0, (resized.Width-target.Width)/2),
		max(0, (resized.Height-target.Height)/2),
	)
}

// FrameOffset returns where the bordered photo of size current sits inside
// a frame canvas of size frame.
//
// The left margin centers the photo horizontally. The top margin is top when
// given, else the left margin converted back to millimeters; either way the
// border thickness is taken off because the border already covers that part
// of the margin.
func FrameOffset(frame, current units.PixelSize, top *units.Length, border units.Length, dpi units.Resolution) image.Point {
	left := floorHalf(frame.Width - current.Width)

	topLen := units.FromPixels(left, dpi)
	if top != nil {
		topLen = *top
	}
	return image.Pt(left, topLen.Sub(border).Pixels(dpi))
}

// PageOffset returns the position that centers current on a page. Each side
// is halved separately, matching how the page is laid out in print.
func PageOffset(page, current units.PixelSize) image.Point {
	return image.Pt(
		floorHalf(page.Width)-floorHalf(current.Width),
		floorHalf(page.Height)-floorHalf(current.Height),
	)
}

func floorHalf(n int) int {
	return n >> 1
}
