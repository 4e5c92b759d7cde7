// Package export serializes lab sheet text into downloadable files.
//
// Each exporter is a pure transformation of a Payload. The variant decides the
// fixed filename and the layout constants of the call site: the output view
// exports lab-sheet.*, the editor exports edited-lab-sheet.*.
package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNothingToExport is returned for empty payloads; callers treat it as a
	// no-op.
	ErrNothingToExport   = errors.New("nothing to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrSerialize         = errors.New("document serialization failed")
)

// Title is the heading written at the top of PDF and Word exports.
const Title = "Laboratory Sheet"

type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

type Variant string

const (
	VariantOutput Variant = "output"
	VariantEditor Variant = "editor"
)

// Payload is the content handed to an exporter. FontSizePx is the editor's
// toolbar size; zero means the exporter default.
type Payload struct {
	Text       string
	FontSizePx int
}

func (p Payload) empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Exporter converts a payload to the bytes of one file.
type Exporter interface {
	Export(p Payload) ([]byte, error)

	// Filename is the fixed download name, e.g. "lab-sheet.pdf".
	Filename() string

	FileExtension() string

	MimeType() string
}

// New returns the exporter for a format at the given call site. The editor
// offers PDF and Word only.
func New(format Format, variant Variant) (Exporter, error) {
	if variant != VariantOutput && variant != VariantEditor {
		return nil, fmt.Errorf("%w: variant %q", ErrUnsupportedFormat, variant)
	}
	switch format {
	case FormatText:
		if variant != VariantOutput {
			return nil, fmt.Errorf("%w: %s from %s", ErrUnsupportedFormat, format, variant)
		}
		return NewTextExporter(), nil
	case FormatPDF:
		return NewPDFExporter(variant), nil
	case FormatDocx:
		return NewDocxExporter(variant), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func baseName(v Variant) string {
	if v == VariantEditor {
		return "edited-lab-sheet"
	}
	return "lab-sheet"
}
