package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres on A4 portrait.
const (
	pdfMargin    = 20.0
	pdfTitleY    = 30.0
	pdfBodyTop   = 50.0
	pdfTitleSize = 16.0
	pdfBodySize  = 12.0
	pdfFont      = "DejaVu"
)

// DejaVu covers Greek, degree and micro signs, arrows and other symbols
// that the PDF core fonts cannot encode.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	dejaVuRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	dejaVuBold []byte
)

type PDFExporter struct {
	variant    Variant
	lineHeight float64
}

// NewPDFExporter uses a line height of 6 for the output view and 7 for the
// editor.
func NewPDFExporter(variant Variant) *PDFExporter {
	lh := 6.0
	if variant == VariantEditor {
		lh = 7.0
	}
	return &PDFExporter{variant: variant, lineHeight: lh}
}

func (e *PDFExporter) Filename() string      { return baseName(e.variant) + e.FileExtension() }
func (e *PDFExporter) FileExtension() string { return ".pdf" }
func (e *PDFExporter) MimeType() string      { return "application/pdf" }

// Export draws the title, then reflows the body to the text width, starting a
// new page whenever the cursor passes the bottom margin.
func (e *PDFExporter) Export(p Payload) ([]byte, error) {
	if p.empty() {
		return nil, ErrNothingToExport
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", dejaVuRegular)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", dejaVuBold)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: pdf font: %v", ErrSerialize, err)
	}

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	pdf.SetFont(pdfFont, "B", pdfTitleSize)
	pdf.Text(pdfMargin, pdfTitleY, Title)

	pdf.SetFont(pdfFont, "", pdfBodySize)
	y := pdfBodyTop
	for _, line := range reflow(pdf, p.Text, pageW-2*pdfMargin) {
		if y > pageH-pdfMargin {
			pdf.AddPage()
			y = pdfMargin
		}
		pdf.Text(pdfMargin, y, line)
		y += e.lineHeight
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: pdf: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}

// reflow splits text into lines no wider than width using the current font.
func reflow(pdf *fpdf.Fpdf, text string, width float64) []string {
	text = strings.ReplaceAll(basicPlane(text), "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, pdf.SplitText(para, width)...)
	}
	return lines
}

// basicPlane replaces runes outside the Basic Multilingual Plane, which the
// font's width table does not cover.
func basicPlane(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		return r
	}, s)
}
