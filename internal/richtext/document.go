// Package richtext is the editable surface behind the lab sheet editor.
//
// Content is an ordered list of blocks, each holding runs of styled text.
// Formatting commands are structural edits: runs are split at the selection
// boundaries, the affected runs are restyled, and equal neighbours are merged
// back together. Only the plain text survives an export; styling is cosmetic.
package richtext

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultFontFamily = "Arial"
	DefaultFontSizePx = 14
	DefaultTextColor  = "#000000"
	DefaultBackground = "#ffffff"

	MinFontSizePx = 8
	MaxFontSizePx = 72
	FontSizeStep  = 2

	Placeholder = "Click here to add text"
)

// Fonts are the families offered by the toolbar.
var Fonts = []string{"Arial", "Times New Roman", "Helvetica", "Georgia", "Courier New"}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Style is the formatting carried by a run. Zero values inherit from the
// surface.
type Style struct {
	Bold       bool   `json:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
	FontSizePx int    `json:"font_size_px,omitempty"`
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
}

type Run struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

type Block struct {
	Align  Align `json:"align"`
	Border bool  `json:"border,omitempty"`
	Runs   []Run `json:"runs"`
}

// Toolbar mirrors the editor controls. FontSizePx is what the Word export uses.
type Toolbar struct {
	FontFamily  string `json:"font_family"`
	FontSizePx  int    `json:"font_size_px"`
	TextColor   string `json:"text_color"`
	Background  string `json:"background"`
	ShowBorders bool   `json:"show_borders"`
}

type Document struct {
	Blocks  []Block `json:"blocks"`
	Surface Style   `json:"surface"`
	Toolbar Toolbar `json:"toolbar"`
}

func New() *Document {
	return &Document{
		Blocks: []Block{},
		Surface: Style{
			FontFamily: DefaultFontFamily,
			FontSizePx: DefaultFontSizePx,
		},
		Toolbar: Toolbar{
			FontFamily: DefaultFontFamily,
			FontSizePx: DefaultFontSizePx,
			TextColor:  DefaultTextColor,
			Background: DefaultBackground,
		},
	}
}

// FromPlainText loads text one block per line. PlainText on the result
// returns the input with line endings normalised to "\n".
func FromPlainText(text string) *Document {
	doc := New()
	if text == "" {
		return doc
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		block := Block{Align: AlignLeft}
		if line != "" {
			block.Runs = []Run{{Text: line}}
		}
		doc.Blocks = append(doc.Blocks, block)
	}
	return doc
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Blocks = make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		out.Blocks[i] = Block{Align: b.Align, Border: b.Border, Runs: append([]Run(nil), b.Runs...)}
	}
	return &out
}

func (d *Document) PlainText() string {
	lines := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		lines[i] = b.Text()
	}
	return strings.Join(lines, "\n")
}

func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len is the block length in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

// AddTextElement appends a placeholder block. Only blocks added while borders
// are on get a border.
func (d *Document) AddTextElement() {
	d.Blocks = append(d.Blocks, Block{
		Align:  AlignLeft,
		Border: d.Toolbar.ShowBorders,
		Runs:   []Run{{Text: Placeholder}},
	})
}

func (d *Document) ToggleBorders() {
	d.Toolbar.ShowBorders = !d.Toolbar.ShowBorders
}

func (b *Block) splitAt(off int) {
	pos := 0
	for i, r := range b.Runs {
		n := utf8.RuneCountInString(r.Text)
		if off > pos && off < pos+n {
			runes := []rune(r.Text)
			left := Run{Text: string(runes[:off-pos]), Style: r.Style}
			right := Run{Text: string(runes[off-pos:]), Style: r.Style}
			b.Runs = append(b.Runs[:i], append([]Run{left, right}, b.Runs[i+1:]...)...)
			return
		}
		pos += n
	}
}

// runsIn calls fn for every non-empty run lying fully inside [from, to).
// Callers split at both bounds first.
func (b *Block) runsIn(from, to int, fn func(*Run)) {
	pos := 0
	for i := range b.Runs {
		n := utf8.RuneCountInString(b.Runs[i].Text)
		if n > 0 && pos >= from && pos+n <= to {
			fn(&b.Runs[i])
		}
		pos += n
	}
}

func (b *Block) normalize() {
	merged := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Style == r.Style {
			merged[n-1].Text += r.Text
			continue
		}
		merged = append(merged, r)
	}
	b.Runs = merged
}
