package picker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Segment is a run of text under one style.
type Segment struct {
	Text  string
	Style lipgloss.Style
}

// StyledLine is one output line of the preview pane.
type StyledLine []Segment

// ConvertANSI turns text that may contain SGR escape sequences into styled
// lines hard-wrapped at maxWidth columns. Wrapping counts runes, so a
// multi-byte codepoint is never split. Malformed or unterminated escapes
// are dropped without failing the conversion.
func ConvertANSI(s string, maxWidth int) []StyledLine {
	if maxWidth < 1 {
		maxWidth = 1
	}

	var out []StyledLine
	style := lipgloss.NewStyle()

	for _, input := range strings.Split(s, "\n") {
		line := StyledLine{}
		width := 0
		var run []rune
		var escape []rune
		inEscape := false

		flush := func() {
			if len(run) > 0 {
				line = append(line, Segment{Text: string(run), Style: style})
				run = run[:0]
			}
		}

		runes := []rune(input)
		for i := 0; i < len(runes); i++ {
			ch := runes[i]

			if inEscape {
				switch ch {
				case '[':
				case 'm':
					style = applySGR(style, string(escape))
					escape = escape[:0]
					inEscape = false
				default:
					escape = append(escape, ch)
				}
				continue
			}

			if ch == '\x1b' && i+1 < len(runes) && runes[i+1] == '[' {
				flush()
				inEscape = true
				continue
			}

			if width == maxWidth {
				flush()
				out = append(out, line)
				line = StyledLine{}
				width = 0
			}
			run = append(run, ch)
			width++
		}

		// An unterminated trailing escape is discarded with its params.
		flush()
		out = append(out, line)
	}

	return out
}

// applySGR maps one escape's parameter string onto the current style.
// Unrecognized codes leave the style unchanged.
func applySGR(style lipgloss.Style, params string) lipgloss.Style {
	fields := strings.Split(params, ";")
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "", "0":
			style = lipgloss.NewStyle()
		case "1":
			style = style.Bold(true)
		case "3":
			style = style.Italic(true)
		case "4":
			style = style.Underline(true)
		case "5", "6":
			style = style.Blink(true)
		case "7":
			style = style.Reverse(true)
		case "9":
			style = style.Strikethrough(true)
		case "22":
			style = style.UnsetBold()
		case "23":
			style = style.UnsetItalic()
		case "24":
			style = style.UnsetUnderline()
		case "25":
			style = style.UnsetBlink()
		case "27":
			style = style.UnsetReverse()
		case "29":
			style = style.UnsetStrikethrough()
		case "38", "48":
			color, consumed := extendedColor(fields[i+1:])
			if consumed == 0 {
				return style
			}
			if fields[i] == "38" {
				style = style.Foreground(color)
			} else {
				style = style.Background(color)
			}
			i += consumed
		case "39":
			style = style.UnsetForeground()
		case "49":
			style = style.UnsetBackground()
		default:
			n, err := strconv.Atoi(fields[i])
			if err != nil {
				continue
			}
			switch {
			case n >= 30 && n <= 37:
				style = style.Foreground(ansiColor(n - 30))
			case n >= 40 && n <= 47:
				style = style.Background(ansiColor(n - 40))
			case n >= 90 && n <= 97:
				style = style.Foreground(ansiColor(n - 90 + 8))
			case n >= 100 && n <= 107:
				style = style.Background(ansiColor(n - 100 + 8))
			}
		}
	}
	return style
}

// extendedColor parses the tail of a 38/48 sequence: "5;n" for 256-color,
// "2;r;g;b" for truecolor. It returns the parsed color and how many fields
// it consumed; zero means the sequence was malformed.
func extendedColor(fields []string) (lipgloss.Color, int) {
	if len(fields) >= 2 && fields[0] == "5" {
		if n, err := strconv.Atoi(fields[1]); err == nil && n >= 0 && n <= 255 {
			return lipgloss.Color(strconv.Itoa(n)), 2
		}
		return "", 0
	}
	if len(fields) >= 4 && fields[0] == "2" {
		rgb := make([]int, 3)
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(fields[1+i])
			if err != nil || n < 0 || n > 255 {
				return "", 0
			}
			rgb[i] = n
		}
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])), 2 + 2
	}
	return "", 0
}

func ansiColor(n int) lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(n))
}

// renderStyledLines flattens styled lines back into terminal text.
func renderStyledLines(lines []StyledLine) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		var b strings.Builder
		for _, seg := range line {
			b.WriteString(seg.Style.Render(seg.Text))
		}
		out[i] = b.String()
	}
	return out
}
