package pdfextract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPageSheet(t *testing.T) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Text(20, 30, "Aim of the experiment")
	doc.AddPage()
	doc.Text(20, 30, "Conclusion reached")
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestInspectSplitsPages(t *testing.T) {
	sum, err := Inspect(twoPageSheet(t))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Pages)
	require.Len(t, sum.PageTexts, 2)
	assert.Contains(t, sum.PageTexts[0], "Aim of the experiment")
	assert.Contains(t, sum.PageTexts[1], "Conclusion reached")
	assert.Contains(t, sum.Text(), "Aim of the experiment")
}

func TestExtractTextReadsWholeDocument(t *testing.T) {
	text, err := ExtractText(bytes.NewReader(twoPageSheet(t)))
	require.NoError(t, err)
	assert.Contains(t, text, "Aim of the experiment")
	assert.Contains(t, text, "Conclusion reached")
	assert.Less(t, strings.Index(text, "Aim"), strings.Index(text, "Conclusion"))
}

func TestRejectsEmptyAndGarbage(t *testing.T) {
	_, err := ExtractText(bytes.NewReader(nil))
	assert.Error(t, err)
	_, err = Inspect(nil)
	assert.Error(t, err)
	_, err = ExtractText(strings.NewReader("not a pdf"))
	assert.Error(t, err)
}
