package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsheet/internal/pkg/pdfextract"
)

func TestNewSelectsExporter(t *testing.T) {
	cases := []struct {
		format   Format
		variant  Variant
		filename string
		mime     string
	}{
		{FormatText, VariantOutput, "lab-sheet.txt", "text/plain; charset=utf-8"},
		{FormatPDF, VariantOutput, "lab-sheet.pdf", "application/pdf"},
		{FormatPDF, VariantEditor, "edited-lab-sheet.pdf", "application/pdf"},
		{FormatDocx, VariantOutput, "lab-sheet.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{FormatDocx, VariantEditor, "edited-lab-sheet.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}
	for _, tc := range cases {
		t.Run(string(tc.variant)+"/"+string(tc.format), func(t *testing.T) {
			e, err := New(tc.format, tc.variant)
			require.NoError(t, err)
			assert.Equal(t, tc.filename, e.Filename())
			assert.Equal(t, tc.mime, e.MimeType())
		})
	}

	_, err := New(FormatText, VariantEditor)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = New("odt", VariantOutput)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEmptyPayloadIsNothingToExport(t *testing.T) {
	for _, format := range []Format{FormatText, FormatPDF, FormatDocx} {
		e, err := New(format, VariantOutput)
		require.NoError(t, err)
		_, err = e.Export(Payload{})
		assert.ErrorIs(t, err, ErrNothingToExport, format)
	}

	_, err := NewPDFExporter(VariantOutput).Export(Payload{Text: " \n\t"})
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestTextExportIsVerbatim(t *testing.T) {
	text := "1. Introduction\r\n  indented  \n\nÅngström ✓"
	got, err := NewTextExporter().Export(Payload{Text: text})
	require.NoError(t, err)
	assert.Equal(t, []byte(text), got)
}

func TestPDFExportHasTitleAndBody(t *testing.T) {
	got, err := NewPDFExporter(VariantOutput).Export(Payload{Text: "1. Introduction\nTitration of acetic acid"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(got, []byte("%PDF-")))

	sum, err := pdfextract.Inspect(got)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Pages)
	assert.Contains(t, sum.Text(), "Laboratory Sheet")
	assert.Contains(t, sum.Text(), "Titration of acetic acid")
}

func TestPDFExportPaginates(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "Observation row %03d\n", i)
	}

	got, err := NewPDFExporter(VariantOutput).Export(Payload{Text: b.String()})
	require.NoError(t, err)
	sum, err := pdfextract.Inspect(got)
	require.NoError(t, err)
	assert.Greater(t, sum.Pages, 1)
	assert.Contains(t, sum.PageTexts[0], "Observation row 000")
	assert.Contains(t, sum.PageTexts[sum.Pages-1], "Observation row 119")

	// The editor uses a taller line, so the same text needs at least as many pages.
	edited, err := NewPDFExporter(VariantEditor).Export(Payload{Text: b.String()})
	require.NoError(t, err)
	esum, err := pdfextract.Inspect(edited)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, esum.Pages, sum.Pages)
}

func TestPDFExportWrapsLongParagraphs(t *testing.T) {
	long := strings.Repeat("burette ", 1200)
	got, err := NewPDFExporter(VariantOutput).Export(Payload{Text: long})
	require.NoError(t, err)
	sum, err := pdfextract.Inspect(got)
	require.NoError(t, err)
	assert.Greater(t, sum.Pages, 1)
}

func TestPDFExportKeepsSymbols(t *testing.T) {
	got, err := NewPDFExporter(VariantOutput).Export(Payload{Text: "ΔT = 5 °C ✓ • μL\nSample 🧪 tube"})
	require.NoError(t, err)
	sum, err := pdfextract.Inspect(got)
	require.NoError(t, err)

	text := sum.Text()
	assert.Contains(t, text, "T = 5 °C")
	assert.NotContains(t, text, ".T = 5")
	assert.NotContains(t, text, ".L")
	assert.Contains(t, text, "Sample ? tube")
}

func TestPDFLineHeightPerVariant(t *testing.T) {
	assert.Equal(t, 6.0, NewPDFExporter(VariantOutput).lineHeight)
	assert.Equal(t, 7.0, NewPDFExporter(VariantEditor).lineHeight)
}

type docxParagraph struct {
	Runs []struct {
		Props struct {
			Bold *struct{} `xml:"b"`
			Size struct {
				Val int `xml:"val,attr"`
			} `xml:"sz"`
		} `xml:"rPr"`
		Text string `xml:"t"`
	} `xml:"r"`
}

type docxBody struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

func readDocx(t *testing.T, data []byte) []docxParagraph {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := map[string]bool{}
	var doc []byte
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		doc, err = io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
	}
	assert.True(t, names["[Content_Types].xml"])
	assert.True(t, names["_rels/.rels"])
	require.NotEmpty(t, doc)

	var parsed docxBody
	require.NoError(t, xml.Unmarshal(doc, &parsed))
	var paras []docxParagraph
	for _, p := range parsed.Body.Paragraphs {
		if len(p.Runs) > 0 {
			paras = append(paras, p)
		}
	}
	return paras
}

func TestDocxExportHeadingsAndBody(t *testing.T) {
	text := "1. Introduction\nAcid & base <basics>\n\n   \n2. Materials and Apparatus\nBurette"
	got, err := NewDocxExporter(VariantOutput).Export(Payload{Text: text})
	require.NoError(t, err)

	paras := readDocx(t, got)
	require.Len(t, paras, 5)

	type want struct {
		text string
		bold bool
		size int
	}
	expected := []want{
		{"Laboratory Sheet", true, 32},
		{"1. Introduction", true, 28},
		{"Acid & base <basics>", false, 24},
		{"2. Materials and Apparatus", true, 28},
		{"Burette", false, 24},
	}
	for i, w := range expected {
		require.Len(t, paras[i].Runs, 1)
		run := paras[i].Runs[0]
		assert.Equal(t, w.text, run.Text)
		assert.Equal(t, w.bold, run.Props.Bold != nil, w.text)
		assert.Equal(t, w.size, run.Props.Size.Val, w.text)
	}
}

func TestDocxExportEditorScalesWithFontSize(t *testing.T) {
	got, err := NewDocxExporter(VariantEditor).Export(Payload{Text: "3. Procedure\nRinse the burette", FontSizePx: 18})
	require.NoError(t, err)

	paras := readDocx(t, got)
	require.Len(t, paras, 3)
	assert.Equal(t, 44, paras[0].Runs[0].Props.Size.Val)
	assert.Equal(t, 40, paras[1].Runs[0].Props.Size.Val)
	assert.Equal(t, 36, paras[2].Runs[0].Props.Size.Val)
}

func TestDocxHeadingNeedsNumberDotSpace(t *testing.T) {
	got, err := NewDocxExporter(VariantOutput).Export(Payload{Text: "1.5 mL of NaOH\n12. Conclusion"})
	require.NoError(t, err)

	paras := readDocx(t, got)
	require.Len(t, paras, 3)
	assert.Nil(t, paras[1].Runs[0].Props.Bold)
	assert.NotNil(t, paras[2].Runs[0].Props.Bold)
}

func TestDocxLayoutKeepsIndentation(t *testing.T) {
	lines := NewDocxExporter(VariantOutput).layout(Payload{Text: "  3. Results\n    indented body\r\n\r\n4. Discussion"})
	assert.Equal(t, []docxLine{
		{text: "Laboratory Sheet", size: 32, bold: true},
		{text: "  3. Results", size: 24},
		{text: "    indented body", size: 24},
		{text: "4. Discussion", size: 28, bold: true},
	}, lines)

	got, err := NewDocxExporter(VariantOutput).Export(Payload{Text: "    indented body"})
	require.NoError(t, err)
	paras := readDocx(t, got)
	require.Len(t, paras, 2)
	assert.Equal(t, "    indented body", paras[1].Runs[0].Text)
}
