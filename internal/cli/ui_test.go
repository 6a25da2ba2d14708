package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/pipeline"
	"github.com/matzehuels/polaprint/pkg/polaroid"
	"github.com/matzehuels/polaprint/pkg/templates"
	"github.com/matzehuels/polaprint/pkg/units"
)

func TestPrinterResult(t *testing.T) {
	tests := []struct {
		name string
		res  pipeline.Result
		want []string
	}{
		{
			name: "processed",
			res: pipeline.Result{
				Input: "a.jpg", Output: "out/a.tif", Status: pipeline.StatusProcessed,
				Template: templates.KindHorizontal,
				Stages:   []polaroid.Stage{{Name: "page", Size: units.Dim(1754, 1205)}},
				Duration: 1500 * time.Millisecond,
			},
			want: []string{iconSuccess, "a.jpg", "out/a.tif", "horizontal", "1754x1205", "1.5s"},
		},
		{
			name: "cached",
			res:  pipeline.Result{Input: "a.jpg", Output: "out/a.tif", Status: pipeline.StatusCached},
			want: []string{iconInfo, "a.jpg", iconCached},
		},
		{
			name: "skipped",
			res: pipeline.Result{Input: "dir", Status: pipeline.StatusSkipped,
				Err: errors.New(errors.ErrCodeInvalidPath, "dir is not a file")},
			want: []string{iconWarning, "dir: dir is not a file"},
		},
		{
			name: "failed",
			res: pipeline.Result{Input: "b.jpg", Status: pipeline.StatusFailed,
				Err: errors.New(errors.ErrCodeDecode, "decode b.jpg")},
			want: []string{iconError, "b.jpg: decode b.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printer{w: &buf}.result(tt.res)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestPrinterReportSummary(t *testing.T) {
	var buf bytes.Buffer
	printer{w: &buf}.report(&pipeline.Report{Processed: 2, Failed: 1, Duration: time.Second}, "prints")

	out := buf.String()
	for _, w := range []string{"Summary", "prints", "printed", "2", "1 failed", "1s"} {
		if !strings.Contains(out, w) {
			t.Errorf("summary %q missing %q", out, w)
		}
	}
	if strings.Contains(out, "cached") {
		t.Error("zero counts should be omitted")
	}
}
