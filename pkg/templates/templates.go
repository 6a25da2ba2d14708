// Package templates holds the three physical print layouts and picks one
// from an image's pixel aspect ratio.
//
// Every template places the photo behind a 0.2mm border inside a white
// matte (the frame) which is itself centered on a colored output page.
// Square and vertical prints share a portrait page; horizontal prints use
// the same page turned to landscape.
package templates

import (
	"image/color"
	"math"
	"strings"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/units"
)

// Kind identifies one of the three layouts.
type Kind string

const (
	KindSquare     Kind = "square"
	KindHorizontal Kind = "horizontal"
	KindVertical   Kind = "vertical"
)

// Auto requests selection by aspect ratio.
const Auto = "auto"

// SquareTolerance bounds the near-square band: rounded ratios inside
// [1/SquareTolerance, SquareTolerance] select the square template.
const SquareTolerance = 1.1

// Template is the set of physical constants for one layout.
type Template struct {
	Kind Kind

	// ImageSize is the visible photo area.
	ImageSize units.Size
	// BorderThickness is painted around the photo on every side.
	BorderThickness units.Length
	// FrameSize is the matte the bordered photo sits in.
	FrameSize units.Size
	// FrameTopOffset places the photo from the top of the matte. When nil
	// the horizontal centering offset is reused.
	FrameTopOffset *units.Length
	// OutputSize is the physical page the framed photo is centered on.
	OutputSize units.Size

	BorderColor color.NRGBA
	FrameColor  color.NRGBA
	OutputColor color.NRGBA
}

var (
	// snow4 in X11 naming.
	borderColor = color.NRGBA{R: 0x8b, G: 0x89, B: 0x89, A: 0xff}
	frameColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	outputColor = color.NRGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}

	portraitPage  = units.Dim[units.Length](102, 148.5)
	landscapePage = units.Dim[units.Length](148.5, 102)
)

// Square returns the square layout.
func Square() Template {
	return Template{
		Kind:            KindSquare,
		ImageSize:       units.Dim[units.Length](79, 79),
		BorderThickness: 0.2,
		FrameSize:       units.Dim[units.Length](88, 107),
		OutputSize:      portraitPage,
		BorderColor:     borderColor,
		FrameColor:      frameColor,
		OutputColor:     outputColor,
	}
}

// Horizontal returns the landscape layout.
func Horizontal() Template {
	return Template{
		Kind:            KindHorizontal,
		ImageSize:       units.Dim[units.Length](92, 73),
		BorderThickness: 0.2,
		FrameSize:       units.Dim[units.Length](102, 102),
		OutputSize:      landscapePage,
		BorderColor:     borderColor,
		FrameColor:      frameColor,
		OutputColor:     outputColor,
	}
}

// Vertical returns the portrait layout.
func Vertical() Template {
	return Template{
		Kind:            KindVertical,
		ImageSize:       units.Dim[units.Length](61, 82),
		BorderThickness: 0.2,
		FrameSize:       units.Dim[units.Length](70, 105),
		OutputSize:      portraitPage,
		BorderColor:     borderColor,
		FrameColor:      frameColor,
		OutputColor:     outputColor,
	}
}

// ForKind returns the preset for k.
func ForKind(k Kind) (Template, error) {
	switch k {
	case KindSquare:
		return Square(), nil
	case KindHorizontal:
		return Horizontal(), nil
	case KindVertical:
		return Vertical(), nil
	default:
		return Template{}, errors.New(errors.ErrCodeInvalidTemplate, "unknown template %q (must be one of: auto, square, horizontal, vertical)", k)
	}
}

// ParseKind parses a template name. It returns ok=false for "auto" or an
// empty string, meaning the template should be chosen per image.
func ParseKind(s string) (k Kind, ok bool, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == Auto {
		return "", false, nil
	}
	if _, err := ForKind(Kind(s)); err != nil {
		return "", false, err
	}
	return Kind(s), true, nil
}

// RoundedRatio returns width/height rounded to one decimal place.
func RoundedRatio(width, height int) float64 {
	return math.Round(float64(width*10)/float64(height)) / 10
}

// Classify maps a pixel size to a template kind using the rounded ratio.
// Ratios above SquareTolerance are horizontal, below its inverse vertical,
// anything in between square.
func Classify(width, height int) Kind {
	ratio := RoundedRatio(width, height)
	switch {
	case ratio > SquareTolerance:
		return KindHorizontal
	case ratio < 1/SquareTolerance:
		return KindVertical
	default:
		return KindSquare
	}
}

// Select returns the preset matching the aspect ratio of px.
func Select(px units.PixelSize) Template {
	t, _ := ForKind(Classify(px.Width, px.Height))
	return t
}

// ImagePixels returns the photo area in pixels at r.
func (t Template) ImagePixels(r units.Resolution) units.PixelSize {
	return units.ToPixels(t.ImageSize, r)
}

// FramePixels returns the matte size in pixels at r.
func (t Template) FramePixels(r units.Resolution) units.PixelSize {
	return units.ToPixels(t.FrameSize, r)
}

// OutputPixels returns the page size in pixels at r.
func (t Template) OutputPixels(r units.Resolution) units.PixelSize {
	return units.ToPixels(t.OutputSize, r)
}

// BorderPixels returns the border thickness in pixels at r.
func (t Template) BorderPixels(r units.Resolution) int {
	return t.BorderThickness.Pixels(r)
}
