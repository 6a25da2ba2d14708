// Package units converts physical print measurements to pixel grids.
//
// Physical sizes are expressed as [Length] values in millimeters. A
// [Resolution] (dots per inch) turns them into whole pixel counts:
//
//	px = round(mm * dpi / 25.4)
//	mm = px * 25.4 / dpi
//
// [Dimensions] pairs a width with a height of the same measurement type.
// Converting a [Size] to a [PixelSize] rounds each component on its own, so
// the pixel pair may not keep the exact physical ratio.
package units

import (
	"fmt"
	"math"
)

// MillimetersPerInch is the number of millimeters in one inch.
const MillimetersPerInch = 25.4

// Length is a physical measurement in millimeters.
type Length float64

// Resolution is the number of dots (pixels) per inch.
type Resolution int

// Pixels converts l to the nearest whole pixel count at resolution r.
// Halves round away from zero.
func (l Length) Pixels(r Resolution) int {
	return int(math.Round(float64(l) * float64(r) / MillimetersPerInch))
}

// FromPixels returns the physical length covered by px pixels at resolution r.
func FromPixels(px int, r Resolution) Length {
	return Length(float64(px) * MillimetersPerInch / float64(r))
}

// Add returns l + o.
func (l Length) Add(o Length) Length { return l + o }

// Sub returns l - o. The result may be negative when used as an offset.
func (l Length) Sub(o Length) Length { return l - o }

// Measure is the set of types a [Dimensions] can hold.
type Measure interface {
	~int | ~float64
}

// Dimensions is a width and height pair.
type Dimensions[T Measure] struct {
	Width  T
	Height T
}

// Size is a physical extent in millimeters.
type Size = Dimensions[Length]

// PixelSize is an extent in whole pixels.
type PixelSize = Dimensions[int]

// Dim builds a Dimensions from its components.
func Dim[T Measure](width, height T) Dimensions[T] {
	return Dimensions[T]{Width: width, Height: height}
}

// Add returns the component-wise sum of d and o.
func (d Dimensions[T]) Add(o Dimensions[T]) Dimensions[T] {
	return Dimensions[T]{Width: d.Width + o.Width, Height: d.Height + o.Height}
}

// Sub returns the component-wise difference d - o. Components may go negative;
// such a result is a centering delta, not a size.
func (d Dimensions[T]) Sub(o Dimensions[T]) Dimensions[T] {
	return Dimensions[T]{Width: d.Width - o.Width, Height: d.Height - o.Height}
}

// Ratio returns width / height. It must not be called on a zero height.
func (d Dimensions[T]) Ratio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Positive reports whether both components are greater than zero.
func (d Dimensions[T]) Positive() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions[T]) String() string {
	return fmt.Sprintf("%vx%v", d.Width, d.Height)
}

// ToPixels converts each component of s to pixels at resolution r.
func ToPixels(s Size, r Resolution) PixelSize {
	return PixelSize{Width: s.Width.Pixels(r), Height: s.Height.Pixels(r)}
}

// ToLength converts each component of p to millimeters at resolution r.
func ToLength(p PixelSize, r Resolution) Size {
	return Size{Width: FromPixels(p.Width, r), Height: FromPixels(p.Height, r)}
}
