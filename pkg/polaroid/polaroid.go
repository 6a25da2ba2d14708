package polaroid

import (
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/raster"
	"github.com/matzehuels/polaprint/pkg/templates"
	"github.com/matzehuels/polaprint/pkg/units"
)

// MaxQuality is the compression quality every print is written with.
const MaxQuality = 100

// CropStrategy chooses where the crop window sits after resizing.
type CropStrategy string

const (
	// CropCenter centers the window.
	CropCenter CropStrategy = "center"
	// CropSmart lets the backend pick the window by image content.
	CropSmart CropStrategy = "smart"
)

// ParseCropStrategy validates a crop strategy name. Empty means center.
func ParseCropStrategy(s string) (CropStrategy, error) {
	switch CropStrategy(s) {
	case "", CropCenter:
		return CropCenter, nil
	case CropSmart:
		return CropSmart, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid crop strategy %q (must be one of: center, smart)", s)
	}
}

// Stage records the geometry a step produced.
type Stage struct {
	Name   string
	Size   units.PixelSize // raster size after the step
	Offset image.Point     // crop, placement or composite offset
}

func (s Stage) String() string {
	return fmt.Sprintf("%s %s @%d,%d", s.Name, s.Size, s.Offset.X, s.Offset.Y)
}

// Polaroid is the layout engine for one print.
type Polaroid struct {
	backend  raster.Backend
	template templates.Template
	dpi      units.Resolution
	crop     CropStrategy
	logger   *log.Logger

	handle raster.Handle // nil until loaded
	stages []Stage
}

// Option configures a Polaroid.
type Option func(*Polaroid)

// WithCrop sets the crop strategy (default CropCenter).
func WithCrop(s CropStrategy) Option {
	return func(p *Polaroid) { p.crop = s }
}

// WithLogger sets the logger for per-step debug output.
func WithLogger(l *log.Logger) Option {
	return func(p *Polaroid) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns an engine for tmpl at dpi with no image loaded.
func New(backend raster.Backend, tmpl templates.Template, dpi units.Resolution, opts ...Option) *Polaroid {
	p := &Polaroid{
		backend:  backend,
		template: tmpl,
		dpi:      dpi,
		crop:     CropCenter,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadPredict decodes path, applies its EXIF orientation and returns an
// engine using the template that matches the oriented aspect ratio.
func LoadPredict(backend raster.Backend, path string, dpi units.Resolution, opts ...Option) (*Polaroid, error) {
	h, err := backend.Decode(path)
	if err != nil {
		return nil, err
	}
	if err := backend.AutoOrient(h); err != nil {
		return nil, err
	}
	if err := backend.SetCompressionQuality(h, MaxQuality); err != nil {
		return nil, err
	}
	size, err := backend.Dimensions(h)
	if err != nil {
		return nil, err
	}
	if !size.Positive() {
		return nil, errors.New(errors.ErrCodeDecode, "%s has empty size %s", path, size)
	}

	p := New(backend, templates.Select(size), dpi, opts...)
	p.handle = h
	p.record("load", size, image.Point{})
	p.logger.Debug("selected template", "file", path, "size", size,
		"ratio", templates.RoundedRatio(size.Width, size.Height), "template", p.template.Kind)
	return p, nil
}

// Load decodes path into the engine, replacing any loaded image. The
// template is kept and no orientation is applied.
func (p *Polaroid) Load(path string) error {
	h, err := p.backend.Decode(path)
	if err != nil {
		return err
	}
	if err := p.backend.SetCompressionQuality(h, MaxQuality); err != nil {
		return err
	}
	size, err := p.backend.Dimensions(h)
	if err != nil {
		return err
	}
	p.handle = h
	p.stages = p.stages[:0]
	p.record("load", size, image.Point{})
	return nil
}

// Loaded reports whether an image is loaded.
func (p *Polaroid) Loaded() bool { return p.handle != nil }

// Template returns the engine's template.
func (p *Polaroid) Template() templates.Template { return p.template }

// Resolution returns the engine's resolution.
func (p *Polaroid) Resolution() units.Resolution { return p.dpi }

// SetResolution changes the resolution used by subsequent steps.
func (p *Polaroid) SetResolution(dpi units.Resolution) { p.dpi = dpi }

// Stages returns the geometry recorded since the image was loaded.
func (p *Polaroid) Stages() []Stage {
	return append([]Stage(nil), p.stages...)
}

// Handle returns the current raster, or nil before loading.
func (p *Polaroid) Handle() raster.Handle { return p.handle }

// Size returns the current raster size.
func (p *Polaroid) Size() (units.PixelSize, error) {
	if p.handle == nil {
		return units.PixelSize{}, errors.ErrNotLoaded
	}
	return p.backend.Dimensions(p.handle)
}

func (p *Polaroid) record(name string, size units.PixelSize, off image.Point) {
	p.stages = append(p.stages, Stage{Name: name, Size: size, Offset: off})
}

// Resize scales the photo to cover the template's photo area with a box
// filter and crops it to exactly that area.
func (p *Polaroid) Resize() error {
	src, err := p.Size()
	if err != nil {
		return err
	}
	target := p.template.ImagePixels(p.dpi)
	plan := ResizePlan(src, p.template.ImageSize.Ratio(), target)

	if err := p.backend.Resize(p.handle, plan, raster.FilterBox); err != nil {
		return err
	}

	offset := CropOffset(plan, target)
	if p.crop == CropSmart {
		if analyzer, ok := p.backend.(raster.CropAnalyzer); ok {
			if offset, err = analyzer.BestCrop(p.handle, target); err != nil {
				return err
			}
		} else {
			p.logger.Warn("backend cannot analyze crops, centering")
		}
	}

	if err := p.backend.Crop(p.handle, target, offset); err != nil {
		return err
	}
	p.record("resize", plan, image.Point{})
	p.record("crop", target, offset)
	p.logger.Debug("resized", "from", src, "to", plan, "crop", target, "offset", offset)
	return nil
}

// AddBorder paints the template border around the photo.
func (p *Polaroid) AddBorder() error {
	if p.handle == nil {
		return errors.ErrNotLoaded
	}
	t := p.template.BorderPixels(p.dpi)
	if err := p.backend.Border(p.handle, p.template.BorderColor, units.Dim(t, t), raster.OpSrcOver); err != nil {
		return err
	}
	size, err := p.backend.Dimensions(p.handle)
	if err != nil {
		return err
	}
	p.record("border", size, image.Pt(t, t))
	p.logger.Debug("bordered", "thickness", t, "size", size)
	return nil
}

// AddFrame extends the canvas to the matte size with the photo placed by
// FrameOffset.
func (p *Polaroid) AddFrame() error {
	current, err := p.Size()
	if err != nil {
		return err
	}
	frame := p.template.FramePixels(p.dpi)
	at := FrameOffset(frame, current, p.template.FrameTopOffset, p.template.BorderThickness, p.dpi)

	if err := p.backend.ExtendCanvas(p.handle, frame, image.Pt(-at.X, -at.Y), p.template.FrameColor); err != nil {
		return err
	}
	p.record("frame", frame, at)
	p.logger.Debug("framed", "frame", frame, "left", at.X, "top", at.Y)
	return nil
}

// AddPage centers the framed photo on a new page of the template's output
// color and makes the page the current raster.
func (p *Polaroid) AddPage() error {
	current, err := p.Size()
	if err != nil {
		return err
	}
	pageSize := p.template.OutputPixels(p.dpi)
	page, err := p.backend.NewCanvas(pageSize, p.template.OutputColor)
	if err != nil {
		return err
	}
	at := PageOffset(pageSize, current)
	if err := p.backend.Composite(page, p.handle, raster.OpOver, at); err != nil {
		return err
	}
	p.handle = page
	p.record("page", pageSize, at)
	p.logger.Debug("composited", "page", pageSize, "offset", at)
	return nil
}

// Write sets the density, converts to CMYK at maximum quality and encodes
// the current raster to path.
func (p *Polaroid) Write(path string) error {
	if p.handle == nil {
		return errors.ErrNotLoaded
	}
	density := raster.Density{X: int(p.dpi), Y: int(p.dpi)}
	if err := p.backend.SetProperty(p.handle, raster.PropertyDensity, density.String()); err != nil {
		return err
	}
	if err := p.backend.ConvertColorspace(p.handle, raster.ColorspaceCMYK); err != nil {
		return err
	}
	if err := p.backend.SetCompressionQuality(p.handle, MaxQuality); err != nil {
		return err
	}
	if err := p.backend.Encode(p.handle, path); err != nil {
		return err
	}
	p.logger.Debug("wrote", "path", path, "density", density)
	return nil
}

// Steps returns the layout steps between loading and writing, in order.
func (p *Polaroid) Steps() []NamedStep {
	return []NamedStep{
		{"resize", p.Resize},
		{"border", p.AddBorder},
		{"frame", p.AddFrame},
		{"page", p.AddPage},
	}
}

// NamedStep is one layout step.
type NamedStep struct {
	Name string
	Run  func() error
}

// Layout runs every step returned by Steps.
func (p *Polaroid) Layout() error {
	for _, step := range p.Steps() {
		if err := step.Run(); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return nil
}
