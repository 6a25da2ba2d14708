package polaroid

import (
	"fmt"
	"image"
	"image/color"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/raster"
	"github.com/matzehuels/polaprint/pkg/units"
)

// fakeRaster tracks geometry only.
type fakeRaster struct {
	id         int
	size       units.PixelSize
	rotated    bool // EXIF says the stored pixels are turned by 90 degrees
	props      map[string]string
	colorspace raster.Colorspace
	quality    int
}

type call struct {
	op     string
	handle int
	size   units.PixelSize
	offset image.Point
	color  color.Color
}

// fakeBackend records every call and applies its geometric effect.
type fakeBackend struct {
	files   map[string]*fakeRaster
	calls   []call
	failOn  string
	nextID  int
	encoded map[string]*fakeRaster
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		files:   make(map[string]*fakeRaster),
		encoded: make(map[string]*fakeRaster),
	}
}

func (b *fakeBackend) addFile(path string, size units.PixelSize, rotated bool) {
	b.files[path] = &fakeRaster{size: size, rotated: rotated}
}

func (b *fakeBackend) newRaster(size units.PixelSize) *fakeRaster {
	b.nextID++
	return &fakeRaster{id: b.nextID, size: size, props: map[string]string{}, colorspace: raster.ColorspaceRGB}
}

func (b *fakeBackend) do(c call) error {
	b.calls = append(b.calls, c)
	if c.op == b.failOn {
		return errors.New(errors.ErrCodeBackend, "%s failed", c.op)
	}
	return nil
}

func (b *fakeBackend) ops() []string {
	out := make([]string, len(b.calls))
	for i, c := range b.calls {
		out[i] = c.op
	}
	return out
}

func (b *fakeBackend) last(op string) call {
	for i := len(b.calls) - 1; i >= 0; i-- {
		if b.calls[i].op == op {
			return b.calls[i]
		}
	}
	panic(fmt.Sprintf("no %s call", op))
}

func get(h raster.Handle) *fakeRaster { return h.(*fakeRaster) }

func (b *fakeBackend) Decode(path string) (raster.Handle, error) {
	src, ok := b.files[path]
	if !ok {
		b.calls = append(b.calls, call{op: "decode"})
		return nil, errors.New(errors.ErrCodeDecode, "no such file %s", path)
	}
	r := b.newRaster(src.size)
	r.rotated = src.rotated
	return r, b.do(call{op: "decode", handle: r.id, size: r.size})
}

func (b *fakeBackend) AutoOrient(h raster.Handle) error {
	r := get(h)
	if err := b.do(call{op: "orient", handle: r.id}); err != nil {
		return err
	}
	if r.rotated {
		r.size = units.Dim(r.size.Height, r.size.Width)
		r.rotated = false
	}
	return nil
}

func (b *fakeBackend) Dimensions(h raster.Handle) (units.PixelSize, error) {
	return get(h).size, nil
}

func (b *fakeBackend) Resize(h raster.Handle, size units.PixelSize, _ raster.Filter) error {
	r := get(h)
	if err := b.do(call{op: "resize", handle: r.id, size: size}); err != nil {
		return err
	}
	r.size = size
	return nil
}

func (b *fakeBackend) Crop(h raster.Handle, size units.PixelSize, offset image.Point) error {
	r := get(h)
	if err := b.do(call{op: "crop", handle: r.id, size: size, offset: offset}); err != nil {
		return err
	}
	if offset.X < 0 || offset.Y < 0 || offset.X+size.Width > r.size.Width || offset.Y+size.Height > r.size.Height {
		return errors.New(errors.ErrCodeGeometry, "crop %s at %v outside %s", size, offset, r.size)
	}
	r.size = size
	return nil
}

func (b *fakeBackend) Border(h raster.Handle, c color.Color, t units.PixelSize, _ raster.CompositeOp) error {
	r := get(h)
	if err := b.do(call{op: "border", handle: r.id, size: t, color: c}); err != nil {
		return err
	}
	r.size = r.size.Add(t).Add(t)
	return nil
}

func (b *fakeBackend) ExtendCanvas(h raster.Handle, size units.PixelSize, offset image.Point, fill color.Color) error {
	r := get(h)
	if err := b.do(call{op: "extend", handle: r.id, size: size, offset: offset, color: fill}); err != nil {
		return err
	}
	r.size = size
	return nil
}

func (b *fakeBackend) NewCanvas(size units.PixelSize, fill color.Color) (raster.Handle, error) {
	r := b.newRaster(size)
	if err := b.do(call{op: "canvas", handle: r.id, size: size, color: fill}); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *fakeBackend) Composite(dst, src raster.Handle, _ raster.CompositeOp, offset image.Point) error {
	return b.do(call{op: "composite", handle: get(dst).id, size: get(src).size, offset: offset})
}

func (b *fakeBackend) SetProperty(h raster.Handle, key, value string) error {
	get(h).props[key] = value
	return b.do(call{op: "property", handle: get(h).id})
}

func (b *fakeBackend) Property(h raster.Handle, key string) (string, bool) {
	v, ok := get(h).props[key]
	return v, ok
}

func (b *fakeBackend) ConvertColorspace(h raster.Handle, cs raster.Colorspace) error {
	if err := b.do(call{op: "colorspace", handle: get(h).id}); err != nil {
		return err
	}
	get(h).colorspace = cs
	return nil
}

func (b *fakeBackend) Colorspace(h raster.Handle) (raster.Colorspace, error) {
	return get(h).colorspace, nil
}

func (b *fakeBackend) SetCompressionQuality(h raster.Handle, q int) error {
	get(h).quality = q
	return b.do(call{op: "quality", handle: get(h).id})
}

func (b *fakeBackend) Encode(h raster.Handle, path string) error {
	if err := b.do(call{op: "encode", handle: get(h).id}); err != nil {
		return err
	}
	b.encoded[path] = get(h)
	return nil
}

// smartFakeBackend adds crop analysis.
type smartFakeBackend struct {
	*fakeBackend
	best image.Point
}

func (b *smartFakeBackend) BestCrop(h raster.Handle, size units.PixelSize) (image.Point, error) {
	return b.best, b.do(call{op: "bestcrop", handle: get(h).id, size: size})
}

var (
	_ raster.Backend      = (*fakeBackend)(nil)
	_ raster.CropAnalyzer = (*smartFakeBackend)(nil)
)
