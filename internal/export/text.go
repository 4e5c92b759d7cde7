package export

type TextExporter struct{}

func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export returns the payload byte for byte.
func (e *TextExporter) Export(p Payload) ([]byte, error) {
	if p.Text == "" {
		return nil, ErrNothingToExport
	}
	return []byte(p.Text), nil
}

func (e *TextExporter) Filename() string      { return "lab-sheet.txt" }
func (e *TextExporter) FileExtension() string { return ".txt" }
func (e *TextExporter) MimeType() string      { return "text/plain; charset=utf-8" }
