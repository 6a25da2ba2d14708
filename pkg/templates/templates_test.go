package templates

import (
	"testing"

	"github.com/matzehuels/polaprint/pkg/units"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          Kind
	}{
		{"exact square", 100, 100, KindSquare},
		{"double wide", 200, 100, KindHorizontal},
		{"half wide", 50, 100, KindVertical},
		{"1.09 inside band", 109, 100, KindSquare},
		{"1.11 rounds to 1.1", 111, 100, KindSquare},
		{"1.15 rounds to 1.2", 115, 100, KindHorizontal},
		{"0.95 rounds to 1.0", 95, 100, KindSquare},
		{"0.9 below band", 90, 100, KindVertical},
		{"camera landscape", 3000, 2000, KindHorizontal},
		{"camera portrait", 2000, 3000, KindVertical},
		{"phone portrait", 3024, 4032, KindVertical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.width, tt.height); got != tt.want {
				t.Errorf("Classify(%d, %d) = %s (ratio %v), want %s",
					tt.width, tt.height, got, RoundedRatio(tt.width, tt.height), tt.want)
			}
		})
	}
}

func TestRoundedRatio(t *testing.T) {
	tests := []struct {
		width, height int
		want          float64
	}{
		{100, 100, 1.0},
		{111, 100, 1.1},
		{3000, 2000, 1.5},
		{4032, 3024, 1.3},
	}
	for _, tt := range tests {
		if got := RoundedRatio(tt.width, tt.height); got != tt.want {
			t.Errorf("RoundedRatio(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	if got := Select(units.Dim(3000, 2000)); got.Kind != KindHorizontal {
		t.Errorf("Select(3000x2000) = %s, want horizontal", got.Kind)
	}
	if got := Select(units.Dim(1000, 1000)); got.Kind != KindSquare {
		t.Errorf("Select(1000x1000) = %s, want square", got.Kind)
	}
}

func TestPresets(t *testing.T) {
	for _, tmpl := range []Template{Square(), Horizontal(), Vertical()} {
		t.Run(string(tmpl.Kind), func(t *testing.T) {
			if tmpl.BorderThickness != 0.2 {
				t.Errorf("border = %v, want 0.2", tmpl.BorderThickness)
			}
			if !tmpl.ImageSize.Positive() || !tmpl.FrameSize.Positive() || !tmpl.OutputSize.Positive() {
				t.Errorf("non-positive size in %+v", tmpl)
			}
			if tmpl.FrameSize.Width < tmpl.ImageSize.Width || tmpl.FrameSize.Height < tmpl.ImageSize.Height {
				t.Errorf("frame %v smaller than image %v", tmpl.FrameSize, tmpl.ImageSize)
			}
			if tmpl.OutputSize.Width < tmpl.FrameSize.Width || tmpl.OutputSize.Height < tmpl.FrameSize.Height {
				t.Errorf("page %v smaller than frame %v", tmpl.OutputSize, tmpl.FrameSize)
			}
			if tmpl.FrameTopOffset != nil {
				t.Error("presets center the photo vertically by default")
			}
		})
	}

	if Square().OutputSize != Vertical().OutputSize {
		t.Error("square and vertical should share a page size")
	}
	h := Horizontal().OutputSize
	if h.Width != Square().OutputSize.Height || h.Height != Square().OutputSize.Width {
		t.Errorf("horizontal page %v is not the portrait page turned", h)
	}
}

func TestPresetsAreIndependent(t *testing.T) {
	a := Square()
	a.ImageSize.Width = 1
	if Square().ImageSize.Width != 79 {
		t.Error("mutating a returned preset changed the preset")
	}
}

func TestPixelSizes(t *testing.T) {
	h := Horizontal()
	if got := h.ImagePixels(300); got != units.Dim(1087, 862) {
		t.Errorf("ImagePixels = %v", got)
	}
	if got := h.FramePixels(300); got != units.Dim(1205, 1205) {
		t.Errorf("FramePixels = %v", got)
	}
	if got := h.OutputPixels(300); got != units.Dim(1754, 1205) {
		t.Errorf("OutputPixels = %v", got)
	}
	if got := h.BorderPixels(300); got != 2 {
		t.Errorf("BorderPixels = %d", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		ok      bool
		wantErr bool
	}{
		{"", "", false, false},
		{"auto", "", false, false},
		{"Square", KindSquare, true, false},
		{" vertical ", KindVertical, true, false},
		{"horizontal", KindHorizontal, true, false},
		{"panorama", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseKind(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
