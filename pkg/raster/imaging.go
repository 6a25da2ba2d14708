package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoding

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/units"
)

// DefaultQuality is the compression quality used when none is set.
const DefaultQuality = 95

// ImagingBackend implements Backend with in-memory images.
// Handles are not safe for concurrent use; distinct handles are independent.
type ImagingBackend struct{}

// NewImagingBackend creates a backend. Most callers should use Default.
func NewImagingBackend() *ImagingBackend {
	return &ImagingBackend{}
}

// imagingRaster is the Handle type of ImagingBackend.
type imagingRaster struct {
	img        image.Image
	source     []byte // encoded bytes, kept until the first mutation for AutoOrient
	props      map[string]string
	colorspace Colorspace
	quality    int
}

func newRaster(img image.Image) *imagingRaster {
	return &imagingRaster{
		img:        img,
		props:      make(map[string]string),
		colorspace: ColorspaceRGB,
	}
}

func (r *imagingRaster) set(img image.Image) {
	r.img = img
	r.source = nil
}

func (r *imagingRaster) size() units.PixelSize {
	b := r.img.Bounds()
	return units.Dim(b.Dx(), b.Dy())
}

func unwrap(h Handle) (*imagingRaster, error) {
	r, ok := h.(*imagingRaster)
	if !ok || r == nil || r.img == nil {
		return nil, errors.New(errors.ErrCodeBackend, "invalid raster handle %T", h)
	}
	return r, nil
}

func checkSize(op string, size units.PixelSize) error {
	if !size.Positive() {
		return errors.New(errors.ErrCodeGeometry, "%s: size %s must be positive", op, size)
	}
	return nil
}

// Decode reads and decodes the image at path.
func (b *ImagingBackend) Decode(path string) (Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "read %s", path)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", path)
	}
	r := newRaster(img)
	r.source = data
	return r, nil
}

// AutoOrient applies the EXIF orientation of the decoded file. It is a
// no-op once the raster has been modified or for formats without EXIF.
func (b *ImagingBackend) AutoOrient(h Handle) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if r.source == nil {
		return nil
	}
	img, err := imaging.Decode(bytes.NewReader(r.source), imaging.AutoOrientation(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "auto-orient")
	}
	r.set(img)
	return nil
}

// Dimensions returns the pixel size of h.
func (b *ImagingBackend) Dimensions(h Handle) (units.PixelSize, error) {
	r, err := unwrap(h)
	if err != nil {
		return units.PixelSize{}, err
	}
	return r.size(), nil
}

// Resize scales h to exactly size.
func (b *ImagingBackend) Resize(h Handle, size units.PixelSize, filter Filter) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if err := checkSize("resize", size); err != nil {
		return err
	}
	r.set(imaging.Resize(r.img, size.Width, size.Height, resampleFilter(filter)))
	return nil
}

// Crop keeps the size window whose top-left corner is offset. The window
// must lie inside the raster.
func (b *ImagingBackend) Crop(h Handle, size units.PixelSize, offset image.Point) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if err := checkSize("crop", size); err != nil {
		return err
	}
	bounds := r.img.Bounds()
	rect := image.Rect(0, 0, size.Width, size.Height).Add(offset).Add(bounds.Min)
	if !rect.In(bounds) {
		return errors.New(errors.ErrCodeGeometry, "crop %s at %v outside %s", size, offset, r.size())
	}
	r.set(imaging.Crop(r.img, rect))
	return nil
}

// Border surrounds h with thickness pixels of c on each side.
func (b *ImagingBackend) Border(h Handle, c color.Color, thickness units.PixelSize, op CompositeOp) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if thickness.Width < 0 || thickness.Height < 0 {
		return errors.New(errors.ErrCodeGeometry, "border thickness %s is negative", thickness)
	}
	size := r.size().Add(thickness).Add(thickness)
	canvas := imaging.New(size.Width, size.Height, c)
	r.set(compose(canvas, r.img, op, image.Pt(thickness.Width, thickness.Height)))
	return nil
}

// ExtendCanvas grows or shrinks the canvas of h to size, filling new area
// with fill. The existing content is placed at -offset.
func (b *ImagingBackend) ExtendCanvas(h Handle, size units.PixelSize, offset image.Point, fill color.Color) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if err := checkSize("extend", size); err != nil {
		return err
	}
	canvas := imaging.New(size.Width, size.Height, fill)
	r.set(compose(canvas, r.img, OpOver, image.Pt(-offset.X, -offset.Y)))
	return nil
}

// NewCanvas creates a raster of size filled with fill.
func (b *ImagingBackend) NewCanvas(size units.PixelSize, fill color.Color) (Handle, error) {
	if err := checkSize("canvas", size); err != nil {
		return nil, err
	}
	return newRaster(imaging.New(size.Width, size.Height, fill)), nil
}

// Composite draws src onto dst with its top-left corner at offset.
func (b *ImagingBackend) Composite(dst, src Handle, op CompositeOp, offset image.Point) error {
	d, err := unwrap(dst)
	if err != nil {
		return err
	}
	s, err := unwrap(src)
	if err != nil {
		return err
	}
	d.set(compose(d.img, s.img, op, offset))
	return nil
}

func compose(dst, src image.Image, op CompositeOp, at image.Point) *image.NRGBA {
	if op == OpCopy {
		return imaging.Paste(dst, src, at)
	}
	return imaging.Overlay(dst, src, at, 1.0)
}

// SetProperty stores a metadata property on h.
func (b *ImagingBackend) SetProperty(h Handle, key, value string) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	r.props[key] = value
	return nil
}

// Property returns a metadata property of h.
func (b *ImagingBackend) Property(h Handle, key string) (string, bool) {
	r, err := unwrap(h)
	if err != nil {
		return "", false
	}
	v, ok := r.props[key]
	return v, ok
}

// ConvertColorspace converts the pixels of h to cs. Transparent areas are
// flattened onto white first since neither target keeps alpha for print.
func (b *ImagingBackend) ConvertColorspace(h Handle, cs Colorspace) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	switch cs {
	case ColorspaceCMYK:
		r.set(toCMYK(flatten(r.img)))
	case ColorspaceRGB:
		r.set(flatten(r.img))
	default:
		return errors.New(errors.ErrCodeUnsupported, "colorspace %q", cs)
	}
	r.colorspace = cs
	return nil
}

// Colorspace reports the current colorspace of h.
func (b *ImagingBackend) Colorspace(h Handle) (Colorspace, error) {
	r, err := unwrap(h)
	if err != nil {
		return "", err
	}
	return r.colorspace, nil
}

func flatten(img image.Image) *image.NRGBA {
	size := img.Bounds().Size()
	white := imaging.New(size.X, size.Y, color.White)
	return imaging.Overlay(white, img, image.Pt(0, 0), 1.0)
}

func toCMYK(img image.Image) *image.CMYK {
	b := img.Bounds()
	dst := image.NewCMYK(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// SetCompressionQuality sets the encoder quality in [1, 100].
func (b *ImagingBackend) SetCompressionQuality(h Handle, quality int) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	if quality < 1 || quality > 100 {
		return errors.New(errors.ErrCodeBackend, "compression quality %d out of range 1-100", quality)
	}
	r.quality = quality
	return nil
}

// Encode writes h to path in the format implied by its extension. The file
// is written under a temporary name and renamed into place, so a failed
// encode leaves nothing behind.
func (b *ImagingBackend) Encode(h Handle, path string) error {
	r, err := unwrap(h)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))

	tmp := filepath.Join(filepath.Dir(path), fmt.Sprintf(".%s%s", uuid.NewString(), ext))
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "create %s", path)
	}
	if err := r.encode(f, ext); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeEncode, err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeEncode, err, "rename to %s", path)
	}
	return nil
}

func (r *imagingRaster) encode(f *os.File, ext string) error {
	quality := r.quality
	if quality == 0 {
		quality = DefaultQuality
	}

	if cmyk, ok := r.img.(*image.CMYK); ok && (ext == ".tif" || ext == ".tiff") {
		density, _ := ParseDensity(r.props[PropertyDensity])
		if err := EncodeCMYKTIFF(f, cmyk, density); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "encode tiff")
		}
		return nil
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "output format %q", ext)
	}
	if err := imaging.Encode(f, r.img, format, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "encode %s", format)
	}
	return nil
}

func resampleFilter(f Filter) imaging.ResampleFilter {
	switch f {
	case FilterLanczos:
		return imaging.Lanczos
	default:
		return imaging.Box
	}
}

// Ensure ImagingBackend implements Backend and CropAnalyzer.
var (
	_ Backend      = (*ImagingBackend)(nil)
	_ CropAnalyzer = (*ImagingBackend)(nil)
)
