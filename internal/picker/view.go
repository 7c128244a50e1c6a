package picker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tms/internal/matcher"
)

// View renders one frame: the ranked list and the filter line, plus the
// preview pane when enabled. The split goes side by side on wide terminals
// (width/2 >= height) and stacks otherwise, in which case the input is
// forced to the bottom no matter how it is configured.
func (m *Model) View() string {
	width, height := m.width, m.height
	if width <= 0 || height <= 0 {
		return ""
	}

	if m.preview == PreviewNone {
		return m.renderPicker(width, height, m.inputPos)
	}

	horizontal := (width+1)/2 >= height
	if horizontal {
		listWidth := width / 2
		picker := m.renderPicker(listWidth, height, m.inputPos)
		preview := m.renderPreview(width-listWidth, height, true)
		return lipgloss.JoinHorizontal(lipgloss.Top, picker, preview)
	}

	previewHeight := height / 2
	preview := m.renderPreview(width, previewHeight, false)
	picker := m.renderPicker(width, height-previewHeight, InputBottom)
	return lipgloss.JoinVertical(lipgloss.Left, preview, picker)
}

// renderPicker draws the match list, the title rule and the filter line
// into a width x height block.
func (m *Model) renderPicker(width, height int, inputPos InputPosition) string {
	if height < 2 {
		return m.renderInput(width)
	}

	listHeight := height - 2 // one row for the input, one for the rule
	rows := m.listRows(width, listHeight, inputPos == InputBottom)

	snapshot := m.matcher.Snapshot()
	rule := m.renderRule(width, fmt.Sprintf("%d/%d", snapshot.Matched, snapshot.Total))
	input := m.renderInput(width)

	var lines []string
	if inputPos == InputBottom {
		lines = append(rows, rule, input)
	} else {
		lines = append([]string{input, rule}, rows...)
	}
	return strings.Join(lines, "\n")
}

// listRows renders exactly count rows. With the input at the bottom the
// list grows bottom to top, so rank 0 sits nearest the input.
func (m *Model) listRows(width, count int, bottomUp bool) []string {
	snapshot := m.matcher.Snapshot()

	// Keep the selection inside the window.
	offset := 0
	if m.selected >= count {
		offset = m.selected - count + 1
	}

	rows := make([]string, 0, count)
	for rank := offset; rank < offset+count; rank++ {
		if rank >= len(snapshot.Items) {
			rows = append(rows, strings.Repeat(" ", width))
			continue
		}
		rows = append(rows, m.renderRow(snapshot.Items[rank], rank == m.selected, width))
	}

	if bottomUp {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

func (m *Model) renderRow(match matcher.Item, selected bool, width int) string {
	label := match.Label
	source := m.items[match.Index]

	prefix := "  "
	if selected {
		prefix = "> "
	}
	if source.Running {
		label = "* " + label
	}

	text := runewidth.Truncate(prefix+label, width, "…")
	text += strings.Repeat(" ", width-runewidth.StringWidth(text))

	if selected {
		return m.styles.Highlight.Render(text)
	}
	return text
}

// renderRule draws the separator between list and input, carrying the
// "matched/total" title.
func (m *Model) renderRule(width int, title string) string {
	styled := m.styles.Info.Render(title)
	rest := width - runewidth.StringWidth(title)
	if rest < 0 {
		rest = 0
	}
	return styled + m.styles.Border.Render(strings.Repeat("─", rest))
}

// renderInput draws the prompt, the filter text and the cursor glyph at
// the cursor's byte offset. Long queries scroll left so the line never
// exceeds the pane width and the cursor stays visible.
func (m *Model) renderInput(width int) string {
	before := m.filter[:m.cursorPos]
	after := m.filter[m.cursorPos:]

	cursor := " "
	if after != "" {
		r, size := utf8.DecodeRuneInString(after)
		cursor = string(r)
		after = after[size:]
	}

	avail := width - 2 - runewidth.StringWidth(cursor) // minus the prompt
	if avail < 1 {
		avail = 1
	}
	for runewidth.StringWidth(before) > avail {
		_, size := utf8.DecodeRuneInString(before)
		before = before[size:]
	}
	after = runewidth.Truncate(after, avail-runewidth.StringWidth(before), "")

	return m.styles.Prompt.Render("> ") + before + m.styles.Cursor.Render(cursor) + after
}

// renderPreview draws the highlighted item's preview through the ANSI
// converter, with a left border beside a horizontal split and a bottom
// rule above a vertical one.
func (m *Model) renderPreview(width, height int, horizontal bool) string {
	var text string
	if item, ok := m.selectedItem(); ok {
		text = m.previewText(item)
	}

	contentWidth := width
	if horizontal {
		contentWidth = width - 1 // the border column
	}
	if contentWidth < 1 {
		contentWidth = 1
	}

	contentHeight := height
	if !horizontal {
		contentHeight = height - 1 // the bottom rule
	}

	lines := renderStyledLines(ConvertANSI(text, contentWidth))
	if len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}

	if horizontal {
		border := m.styles.Border.Render("│")
		for i := range lines {
			lines[i] = border + lines[i]
		}
		return strings.Join(lines, "\n")
	}

	rule := m.styles.Border.Render(strings.Repeat("─", width))
	return strings.Join(lines, "\n") + "\n" + rule
}
