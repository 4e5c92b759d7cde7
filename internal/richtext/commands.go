package richtext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown editor command")
	ErrInvalidValue   = errors.New("invalid command value")
)

const (
	CmdBold             = "bold"
	CmdItalic           = "italic"
	CmdUnderline        = "underline"
	CmdJustifyLeft      = "justifyLeft"
	CmdJustifyCenter    = "justifyCenter"
	CmdJustifyRight     = "justifyRight"
	CmdFontName         = "fontName"
	CmdFontSize         = "fontSize"
	CmdIncreaseFontSize = "increaseFontSize"
	CmdDecreaseFontSize = "decreaseFontSize"
	CmdForeColor        = "foreColor"
	CmdBackColor        = "backColor"
	CmdToggleBorders    = "toggleBorders"
	CmdAddTextElement   = "addTextElement"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Position addresses a rune offset inside a block.
type Position struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

func (p Position) before(o Position) bool {
	if p.Block != o.Block {
		return p.Block < o.Block
	}
	return p.Offset < o.Offset
}

type Selection struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Command is one toolbar action. Value carries the font family, pixel size or
// colour where the command needs one.
type Command struct {
	Name      string     `json:"command"`
	Value     string     `json:"value,omitempty"`
	Selection *Selection `json:"selection,omitempty"`
}

// Apply runs cmd against the document. Inline formatting with no usable
// selection is a no-op, matching a caret-only toolbar click.
func (d *Document) Apply(cmd Command) error {
	switch cmd.Name {
	case CmdBold:
		d.toggle(cmd.Selection, func(s *Style) *bool { return &s.Bold })
	case CmdItalic:
		d.toggle(cmd.Selection, func(s *Style) *bool { return &s.Italic })
	case CmdUnderline:
		d.toggle(cmd.Selection, func(s *Style) *bool { return &s.Underline })
	case CmdJustifyLeft:
		d.align(cmd.Selection, AlignLeft)
	case CmdJustifyCenter:
		d.align(cmd.Selection, AlignCenter)
	case CmdJustifyRight:
		d.align(cmd.Selection, AlignRight)
	case CmdFontName:
		return d.SetFontFamily(cmd.Selection, cmd.Value)
	case CmdFontSize:
		px, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(cmd.Value, "px")))
		if err != nil {
			return fmt.Errorf("%w: font size %q", ErrInvalidValue, cmd.Value)
		}
		d.SetFontSize(cmd.Selection, px)
	case CmdIncreaseFontSize:
		d.SetFontSize(cmd.Selection, d.Toolbar.FontSizePx+FontSizeStep)
	case CmdDecreaseFontSize:
		d.SetFontSize(cmd.Selection, d.Toolbar.FontSizePx-FontSizeStep)
	case CmdForeColor:
		return d.SetColor(cmd.Selection, cmd.Value, false)
	case CmdBackColor:
		return d.SetColor(cmd.Selection, cmd.Value, true)
	case CmdToggleBorders:
		d.ToggleBorders()
	case CmdAddTextElement:
		d.AddTextElement()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}
	return nil
}

// SetFontSize clamps px to the toolbar range and wraps the selection with an
// explicit size. Without a non-empty selection the whole surface changes.
func (d *Document) SetFontSize(sel *Selection, px int) {
	px = clampFontSize(px)
	d.Toolbar.FontSizePx = px
	if !d.restyle(sel, func(s *Style) { s.FontSizePx = px }) {
		d.Surface.FontSizePx = px
	}
}

func (d *Document) SetFontFamily(sel *Selection, family string) error {
	if !isKnownFont(family) {
		return fmt.Errorf("%w: font %q", ErrInvalidValue, family)
	}
	d.Toolbar.FontFamily = family
	if !d.restyle(sel, func(s *Style) { s.FontFamily = family }) {
		d.Surface.FontFamily = family
	}
	return nil
}

func (d *Document) SetColor(sel *Selection, color string, background bool) error {
	if !hexColorRe.MatchString(color) {
		return fmt.Errorf("%w: colour %q", ErrInvalidValue, color)
	}
	color = strings.ToLower(color)
	if background {
		d.Toolbar.Background = color
		if !d.restyle(sel, func(s *Style) { s.Background = color }) {
			d.Surface.Background = color
		}
		return nil
	}
	d.Toolbar.TextColor = color
	if !d.restyle(sel, func(s *Style) { s.Color = color }) {
		d.Surface.Color = color
	}
	return nil
}

func (d *Document) toggle(sel *Selection, field func(*Style) *bool) {
	span, ok := d.span(sel)
	if !ok {
		return
	}
	all := true
	found := false
	d.visit(span, func(r *Run) {
		found = true
		if !*field(&r.Style) {
			all = false
		}
	})
	if !found {
		return
	}
	d.visit(span, func(r *Run) { *field(&r.Style) = !all })
	d.normalize(span)
}

func (d *Document) align(sel *Selection, a Align) {
	if sel == nil {
		return
	}
	s, ok := d.resolve(*sel)
	if !ok {
		return
	}
	for i := s.Start.Block; i <= s.End.Block; i++ {
		d.Blocks[i].Align = a
	}
}

// restyle applies fn to the selected runs and reports whether anything was
// selected.
func (d *Document) restyle(sel *Selection, fn func(*Style)) bool {
	span, ok := d.span(sel)
	if !ok {
		return false
	}
	touched := false
	d.visit(span, func(r *Run) {
		touched = true
		fn(&r.Style)
	})
	d.normalize(span)
	return touched
}

// span validates sel and splits runs at its bounds.
func (d *Document) span(sel *Selection) (Selection, bool) {
	if sel == nil {
		return Selection{}, false
	}
	s, ok := d.resolve(*sel)
	if !ok || s.Collapsed() {
		return Selection{}, false
	}
	for i := s.Start.Block; i <= s.End.Block; i++ {
		from, to := d.bounds(s, i)
		d.Blocks[i].splitAt(from)
		d.Blocks[i].splitAt(to)
	}
	return s, true
}

func (d *Document) visit(s Selection, fn func(*Run)) {
	for i := s.Start.Block; i <= s.End.Block; i++ {
		from, to := d.bounds(s, i)
		d.Blocks[i].runsIn(from, to, fn)
	}
}

func (d *Document) normalize(s Selection) {
	for i := s.Start.Block; i <= s.End.Block; i++ {
		d.Blocks[i].normalize()
	}
}

func (d *Document) bounds(s Selection, block int) (int, int) {
	from, to := 0, d.Blocks[block].Len()
	if block == s.Start.Block {
		from = s.Start.Offset
	}
	if block == s.End.Block {
		to = s.End.Offset
	}
	return from, to
}

// resolve orders the selection ends and rejects positions outside the document.
func (d *Document) resolve(s Selection) (Selection, bool) {
	if s.End.before(s.Start) {
		s.Start, s.End = s.End, s.Start
	}
	for _, p := range []Position{s.Start, s.End} {
		if p.Block < 0 || p.Block >= len(d.Blocks) {
			return Selection{}, false
		}
		if p.Offset < 0 || p.Offset > d.Blocks[p.Block].Len() {
			return Selection{}, false
		}
	}
	return s, true
}

func clampFontSize(px int) int {
	if px < MinFontSizePx {
		return MinFontSizePx
	}
	if px > MaxFontSizePx {
		return MaxFontSizePx
	}
	return px
}

func isKnownFont(family string) bool {
	for _, f := range Fonts {
		if f == family {
			return true
		}
	}
	return false
}
