package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
)

// headingPattern marks numbered section lines such as "3. Procedure".
var headingPattern = regexp.MustCompile(`^\d+\. `)

// Run sizes in half-points.
const (
	docxOutputBody = 24
	docxHeadingAdd = 4
	docxTitleAdd   = 8
)

type DocxExporter struct {
	variant Variant
}

func NewDocxExporter(variant Variant) *DocxExporter {
	return &DocxExporter{variant: variant}
}

func (e *DocxExporter) Filename() string      { return baseName(e.variant) + e.FileExtension() }
func (e *DocxExporter) FileExtension() string { return ".docx" }
func (e *DocxExporter) MimeType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// bodySize is fixed for the output view; the editor scales with its toolbar
// size in pixels.
func (e *DocxExporter) bodySize(p Payload) int {
	if e.variant == VariantEditor && p.FontSizePx > 0 {
		return p.FontSizePx * 2
	}
	return docxOutputBody
}

type docxLine struct {
	text string
	size int
	bold bool
}

// layout turns the text into title, heading and body paragraphs. Blank lines
// are dropped; other lines keep their indentation.
func (e *DocxExporter) layout(p Payload) []docxLine {
	body := e.bodySize(p)
	lines := []docxLine{{text: Title, size: body + docxTitleAdd, bold: true}}
	for _, line := range strings.Split(p.Text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if headingPattern.MatchString(line) {
			lines = append(lines, docxLine{text: line, size: body + docxHeadingAdd, bold: true})
			continue
		}
		lines = append(lines, docxLine{text: line, size: body})
	}
	return lines
}

// Export writes a title paragraph followed by one paragraph per non-blank
// line. Numbered lines become bold headings.
func (e *DocxExporter) Export(p Payload) ([]byte, error) {
	if p.empty() {
		return nil, ErrNothingToExport
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrSerialize, err)
	}
	for _, line := range e.layout(p) {
		// godocx takes whole points and stores half-points.
		run := doc.AddEmptyParagraph().AddText(line.text).Size(uint64(line.size / 2))
		if line.bold {
			run.Bold(true)
		}
	}

	dir, err := os.MkdirTemp("", "labsheet-docx-")
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrSerialize, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, e.Filename())
	if err := doc.SaveTo(path); err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrSerialize, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", ErrSerialize, err)
	}
	return data, nil
}
