package picker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineText(line StyledLine) string {
	var b strings.Builder
	for _, seg := range line {
		b.WriteString(seg.Text)
	}
	return b.String()
}

func TestConvertANSIRedThenPlain(t *testing.T) {
	lines := ConvertANSI("\x1b[31mred\x1b[0m plain", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 2)

	assert.Equal(t, "red", lines[0][0].Text)
	assert.Equal(t, lipgloss.Color("1"), lines[0][0].Style.GetForeground())

	assert.Equal(t, " plain", lines[0][1].Text)
	assert.Equal(t, lipgloss.NoColor{}, lines[0][1].Style.GetForeground())
}

func TestConvertANSIPlainTextPassesThrough(t *testing.T) {
	lines := ConvertANSI("one\ntwo", 80)

	require.Len(t, lines, 2)
	assert.Equal(t, "one", lineText(lines[0]))
	assert.Equal(t, "two", lineText(lines[1]))
}

func TestConvertANSIWrapsAtWidth(t *testing.T) {
	lines := ConvertANSI("abcdefgh", 3)

	require.Len(t, lines, 3)
	assert.Equal(t, "abc", lineText(lines[0]))
	assert.Equal(t, "def", lineText(lines[1]))
	assert.Equal(t, "gh", lineText(lines[2]))
}

func TestConvertANSIWrapNeverSplitsCodepoints(t *testing.T) {
	input := strings.Repeat("日本語テキスト", 5)

	for _, width := range []int{1, 2, 3, 7} {
		for _, line := range ConvertANSI(input, width) {
			text := lineText(line)
			assert.True(t, utf8.ValidString(text))
			assert.LessOrEqual(t, utf8.RuneCountInString(text), width)
		}
	}
}

func TestConvertANSIStyleSpansWrappedLines(t *testing.T) {
	lines := ConvertANSI("\x1b[32mabcdef", 3)

	require.Len(t, lines, 2)
	for _, line := range lines {
		require.Len(t, line, 1)
		assert.Equal(t, lipgloss.Color("2"), line[0].Style.GetForeground())
	}
}

func TestConvertANSIToggles(t *testing.T) {
	lines := ConvertANSI("\x1b[1mbold\x1b[22mnormal", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 2)
	assert.True(t, lines[0][0].Style.GetBold())
	assert.False(t, lines[0][1].Style.GetBold())
}

func TestConvertANSICombinedParams(t *testing.T) {
	lines := ConvertANSI("\x1b[1;31mloud", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 1)
	assert.True(t, lines[0][0].Style.GetBold())
	assert.Equal(t, lipgloss.Color("1"), lines[0][0].Style.GetForeground())
}

func TestConvertANSIBrightAndBackground(t *testing.T) {
	lines := ConvertANSI("\x1b[91m\x1b[44mtext", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 1)
	assert.Equal(t, lipgloss.Color("9"), lines[0][0].Style.GetForeground())
	assert.Equal(t, lipgloss.Color("4"), lines[0][0].Style.GetBackground())
}

func TestConvertANSIExtendedColors(t *testing.T) {
	lines := ConvertANSI("\x1b[38;5;208morange \x1b[48;2;16;32;48mrgb", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 2)
	assert.Equal(t, lipgloss.Color("208"), lines[0][0].Style.GetForeground())
	assert.Equal(t, lipgloss.Color("#102030"), lines[0][1].Style.GetBackground())
}

func TestConvertANSIUnknownCodeLeavesStyleUnchanged(t *testing.T) {
	lines := ConvertANSI("\x1b[31ma\x1b[999mb", 80)

	require.Len(t, lines, 1)
	require.Len(t, lines[0], 2)
	assert.Equal(t, lipgloss.Color("1"), lines[0][1].Style.GetForeground())
}

func TestConvertANSIMalformedTailDoesNotFail(t *testing.T) {
	lines := ConvertANSI("text\x1b[31", 80)

	require.Len(t, lines, 1)
	assert.Equal(t, "text", lineText(lines[0]))
}

func TestConvertANSILoneEscapeIsLiteral(t *testing.T) {
	lines := ConvertANSI("a\x1bz", 80)

	require.Len(t, lines, 1)
	assert.Equal(t, "a\x1bz", lineText(lines[0]))
}
