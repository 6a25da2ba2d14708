package errors

import (
	"strings"
	"unicode"
)

// Resolution limits accepted on the command line and in config files.
const (
	MinDPI = 1
	MaxDPI = 4800
)

// ValidatePath checks that an input or output path is usable: non-empty,
// no control characters, and within the usual filesystem length limit.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateDPI checks that a print resolution is within [MinDPI, MaxDPI].
// At MaxDPI a landscape page is already roughly 28000x19000 pixels.
func ValidateDPI(dpi int) error {
	if dpi < MinDPI || dpi > MaxDPI {
		return New(ErrCodeInvalidInput, "dpi %d out of range (must be between %d and %d)", dpi, MinDPI, MaxDPI)
	}
	return nil
}

// ValidateFormat checks format against the supported output extensions.
// Matching is case-insensitive and ignores a leading dot.
func ValidateFormat(format string, supported []string) error {
	f := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
	if f == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	for _, s := range supported {
		if f == s {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported output format %q (must be one of: %s)", format, strings.Join(supported, ", "))
}
