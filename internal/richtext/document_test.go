package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sel(sb, so, eb, eo int) *Selection {
	return &Selection{Start: Position{Block: sb, Offset: so}, End: Position{Block: eb, Offset: eo}}
}

func TestFromPlainTextRoundTrip(t *testing.T) {
	text := "1. Introduction\n\nThe titration uses NaOH.\n"
	doc := FromPlainText(text)
	require.Len(t, doc.Blocks, 4)
	assert.Equal(t, text, doc.PlainText())

	assert.Equal(t, "", FromPlainText("").PlainText())
	assert.Equal(t, "a\nb", FromPlainText("a\r\nb").PlainText())
}

func TestBoldSplitsRunsAtSelection(t *testing.T) {
	doc := FromPlainText("Hello world")
	require.NoError(t, doc.Apply(Command{Name: CmdBold, Selection: sel(0, 6, 0, 11)}))

	runs := doc.Blocks[0].Runs
	require.Len(t, runs, 2)
	assert.Equal(t, "Hello ", runs[0].Text)
	assert.False(t, runs[0].Style.Bold)
	assert.Equal(t, "world", runs[1].Text)
	assert.True(t, runs[1].Style.Bold)
	assert.Equal(t, "Hello world", doc.PlainText())
}

func TestBoldTogglesOffWhenWholeSelectionIsBold(t *testing.T) {
	doc := FromPlainText("Hello world")
	require.NoError(t, doc.Apply(Command{Name: CmdBold, Selection: sel(0, 0, 0, 11)}))
	require.NoError(t, doc.Apply(Command{Name: CmdBold, Selection: sel(0, 0, 0, 5)}))

	runs := doc.Blocks[0].Runs
	require.Len(t, runs, 2)
	assert.False(t, runs[0].Style.Bold)
	assert.True(t, runs[1].Style.Bold)

	// Mixed selection turns everything on.
	require.NoError(t, doc.Apply(Command{Name: CmdBold, Selection: sel(0, 0, 0, 11)}))
	require.Len(t, doc.Blocks[0].Runs, 1)
	assert.True(t, doc.Blocks[0].Runs[0].Style.Bold)
}

func TestSelectionAcrossBlocksReversedEnds(t *testing.T) {
	doc := FromPlainText("first line\nsecond line")
	require.NoError(t, doc.Apply(Command{Name: CmdItalic, Selection: sel(1, 6, 0, 6)}))

	first := doc.Blocks[0].Runs
	require.Len(t, first, 2)
	assert.Equal(t, "line", first[1].Text)
	assert.True(t, first[1].Style.Italic)

	second := doc.Blocks[1].Runs
	require.Len(t, second, 2)
	assert.Equal(t, "second", second[0].Text)
	assert.True(t, second[0].Style.Italic)
	assert.False(t, second[1].Style.Italic)
}

func TestInlineFormattingWithoutSelectionIsNoop(t *testing.T) {
	doc := FromPlainText("text")
	before := doc.Clone()
	require.NoError(t, doc.Apply(Command{Name: CmdUnderline}))
	require.NoError(t, doc.Apply(Command{Name: CmdUnderline, Selection: sel(0, 2, 0, 2)}))
	require.NoError(t, doc.Apply(Command{Name: CmdUnderline, Selection: sel(3, 0, 3, 1)}))
	assert.Equal(t, before, doc)
}

func TestFontSizeWrapsSelection(t *testing.T) {
	doc := FromPlainText("Results table")
	require.NoError(t, doc.Apply(Command{Name: CmdFontSize, Value: "20px", Selection: sel(0, 0, 0, 7)}))

	runs := doc.Blocks[0].Runs
	require.Len(t, runs, 2)
	assert.Equal(t, 20, runs[0].Style.FontSizePx)
	assert.Equal(t, 0, runs[1].Style.FontSizePx)
	assert.Equal(t, DefaultFontSizePx, doc.Surface.FontSizePx)
	assert.Equal(t, 20, doc.Toolbar.FontSizePx)
}

func TestFontSizeFallsBackToSurface(t *testing.T) {
	doc := FromPlainText("Results table")
	require.NoError(t, doc.Apply(Command{Name: CmdFontSize, Value: "18"}))
	assert.Equal(t, 18, doc.Surface.FontSizePx)
	assert.Equal(t, 18, doc.Toolbar.FontSizePx)
	assert.Equal(t, 0, doc.Blocks[0].Runs[0].Style.FontSizePx)

	require.NoError(t, doc.Apply(Command{Name: CmdFontSize, Value: "200"}))
	assert.Equal(t, MaxFontSizePx, doc.Surface.FontSizePx)

	err := doc.Apply(Command{Name: CmdFontSize, Value: "big"})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFontSizeStepping(t *testing.T) {
	doc := New()
	require.NoError(t, doc.Apply(Command{Name: CmdIncreaseFontSize}))
	assert.Equal(t, DefaultFontSizePx+FontSizeStep, doc.Toolbar.FontSizePx)

	for i := 0; i < 10; i++ {
		require.NoError(t, doc.Apply(Command{Name: CmdDecreaseFontSize}))
	}
	assert.Equal(t, MinFontSizePx, doc.Toolbar.FontSizePx)
}

func TestFontNameAndColours(t *testing.T) {
	doc := FromPlainText("Safety notes")
	require.NoError(t, doc.Apply(Command{Name: CmdFontName, Value: "Georgia", Selection: sel(0, 0, 0, 6)}))
	require.NoError(t, doc.Apply(Command{Name: CmdForeColor, Value: "#FF0000", Selection: sel(0, 0, 0, 6)}))
	require.NoError(t, doc.Apply(Command{Name: CmdBackColor, Value: "#ffff00"}))

	first := doc.Blocks[0].Runs[0]
	assert.Equal(t, "Safety", first.Text)
	assert.Equal(t, "Georgia", first.Style.FontFamily)
	assert.Equal(t, "#ff0000", first.Style.Color)
	assert.Equal(t, "#ffff00", doc.Surface.Background)
	assert.Equal(t, "#ffff00", doc.Toolbar.Background)

	assert.ErrorIs(t, doc.Apply(Command{Name: CmdFontName, Value: "Comic Sans"}), ErrInvalidValue)
	assert.ErrorIs(t, doc.Apply(Command{Name: CmdForeColor, Value: "red"}), ErrInvalidValue)
}

func TestAlignmentTouchesSelectedBlocks(t *testing.T) {
	doc := FromPlainText("a\nb\nc")
	require.NoError(t, doc.Apply(Command{Name: CmdJustifyCenter, Selection: sel(0, 1, 1, 0)}))
	assert.Equal(t, AlignCenter, doc.Blocks[0].Align)
	assert.Equal(t, AlignCenter, doc.Blocks[1].Align)
	assert.Equal(t, AlignLeft, doc.Blocks[2].Align)

	require.NoError(t, doc.Apply(Command{Name: CmdJustifyRight, Selection: sel(2, 0, 2, 0)}))
	assert.Equal(t, AlignRight, doc.Blocks[2].Align)
}

func TestBordersOnlyAffectNewBlocks(t *testing.T) {
	doc := FromPlainText("existing")
	require.NoError(t, doc.Apply(Command{Name: CmdAddTextElement}))
	require.NoError(t, doc.Apply(Command{Name: CmdToggleBorders}))
	require.NoError(t, doc.Apply(Command{Name: CmdAddTextElement}))

	require.Len(t, doc.Blocks, 3)
	assert.False(t, doc.Blocks[0].Border)
	assert.False(t, doc.Blocks[1].Border)
	assert.True(t, doc.Blocks[2].Border)
	assert.Equal(t, Placeholder, doc.Blocks[2].Text())
	assert.Equal(t, "existing\n"+Placeholder+"\n"+Placeholder, doc.PlainText())
}

func TestUnknownCommand(t *testing.T) {
	assert.ErrorIs(t, New().Apply(Command{Name: "strikeThrough"}), ErrUnknownCommand)
}

func TestMultibyteOffsets(t *testing.T) {
	doc := FromPlainText("Température °C")
	require.NoError(t, doc.Apply(Command{Name: CmdBold, Selection: sel(0, 12, 0, 14)}))
	runs := doc.Blocks[0].Runs
	require.Len(t, runs, 2)
	assert.Equal(t, "°C", runs[1].Text)
}

func TestCloneIsDetached(t *testing.T) {
	doc := FromPlainText("shared")
	cp := doc.Clone()
	require.NoError(t, cp.Apply(Command{Name: CmdBold, Selection: sel(0, 0, 0, 3)}))
	assert.Len(t, doc.Blocks[0].Runs, 1)
	assert.False(t, doc.Blocks[0].Runs[0].Style.Bold)
}

func TestCommandJSONShape(t *testing.T) {
	var cmd Command
	raw := `{"command":"fontSize","value":"16","selection":{"start":{"block":0,"offset":1},"end":{"block":0,"offset":3}}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &cmd))
	assert.Equal(t, CmdFontSize, cmd.Name)
	require.NotNil(t, cmd.Selection)
	assert.Equal(t, 3, cmd.Selection.End.Offset)
}
