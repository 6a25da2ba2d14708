package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/polaprint/pkg/errors"
	"github.com/matzehuels/polaprint/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached = lipgloss.NewStyle().Foreground(colorGreen)
	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
)

// =============================================================================
// Status Output
// =============================================================================

// printer writes styled status lines to w.
type printer struct {
	w io.Writer
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	fmt.Fprintln(p.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Batch Report
// =============================================================================

// result prints one line per input file.
func (p printer) result(res pipeline.Result) {
	switch res.Status {
	case pipeline.StatusProcessed:
		p.success("%s %s %s", res.Input, StyleDim.Render(iconArrow), StyleValue.Render(res.Output))
		if n := len(res.Stages); n > 0 {
			p.detail("%s · %s · %s", res.Template, res.Stages[n-1].Size, res.Duration.Round(time.Millisecond))
		}
	case pipeline.StatusCached:
		p.info("%s %s %s %s", res.Input, StyleDim.Render(iconArrow), res.Output, styleCached.Render(iconCached))
	case pipeline.StatusSkipped:
		p.warning("%s: %s", res.Input, errors.UserMessage(res.Err))
	case pipeline.StatusFailed:
		p.failure("%s: %s", res.Input, errors.UserMessage(res.Err))
	}
}

// report prints every result followed by a summary.
func (p printer) report(r *pipeline.Report, outDir string) {
	for _, res := range r.Results {
		p.result(res)
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, StyleTitle.Render("Summary"))
	p.keyValue("output", outDir)
	p.keyValue("printed", StyleNumber.Render(fmt.Sprint(r.Processed)))
	counts := []string{}
	if r.Cached > 0 {
		counts = append(counts, fmt.Sprintf("%d cached", r.Cached))
	}
	if r.Skipped > 0 {
		counts = append(counts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	if r.Failed > 0 {
		counts = append(counts, fmt.Sprintf("%d failed", r.Failed))
	}
	if len(counts) > 0 {
		p.keyValue("other", strings.Join(counts, ", "))
	}
	p.keyValue("time", r.Duration.Round(time.Millisecond).String())
}
