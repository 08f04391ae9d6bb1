// Package render draws gantt charts.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sarchlab/gantt/gantt"
)

// A Renderer draws a chart into w.
type Renderer interface {
	Render(ctx context.Context, chart *gantt.Chart, w io.Writer) error
}

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatPDF  Format = "pdf"
	FormatEPS  Format = "eps"
	FormatTIFF Format = "tif"
)

// ErrUnsupportedFormat is returned for formats no renderer can produce.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat accepts a format name, case-insensitive, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	case "eps":
		return FormatEPS, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath infers the format from the extension of a path or URL.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}

	return ParseFormat(ext)
}

// Size is the size of the output in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is 12 by 6 inches at 100 dpi.
var DefaultSize = Size{Width: 1200, Height: 600}

// New returns the renderer for a format. SVG is drawn directly, every other
// format goes through gonum/plot.
func New(format Format, size Size) (Renderer, error) {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	switch format {
	case FormatSVG:
		return NewSVGRenderer(size), nil
	case FormatPNG, FormatJPEG, FormatPDF, FormatEPS, FormatTIFF:
		return NewPlotRenderer(format, size), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	case FormatEPS:
		return "application/postscript"
	case FormatTIFF:
		return "image/tiff"
	}

	return "application/octet-stream"
}
