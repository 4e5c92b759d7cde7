package pdfextract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Summary describes an exported lab sheet read back from PDF bytes.
type Summary struct {
	Pages     int
	PageTexts []string
}

// Text joins every page's text with newlines.
func (s Summary) Text() string {
	var b bytes.Buffer
	for i, t := range s.PageTexts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t)
	}
	return b.String()
}

// ExtractText streams a whole document's text in reading order. Unlike
// Inspect it does not split pages, which suits dumping a lab sheet for review.
func ExtractText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("pdfextract: read: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("pdfextract: empty input")
	}
	doc, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("pdfextract: open: %w", err)
	}
	plain, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdfextract: text: %w", err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("pdfextract: text: %w", err)
	}
	return out.String(), nil
}

// Inspect opens PDF bytes and extracts text page by page.
func Inspect(b []byte) (Summary, error) {
	if len(b) == 0 {
		return Summary{}, fmt.Errorf("pdfextract: empty input")
	}
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return Summary{}, fmt.Errorf("pdfextract: open: %w", err)
	}

	sum := Summary{Pages: r.NumPage()}
	for i := 1; i <= sum.Pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			sum.PageTexts = append(sum.PageTexts, "")
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range p.Fonts() {
			f := p.Font(name)
			fonts[name] = &f
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return Summary{}, fmt.Errorf("pdfextract: page %d: %w", i, err)
		}
		sum.PageTexts = append(sum.PageTexts, text)
	}
	return sum, nil
}
