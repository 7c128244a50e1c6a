package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPicker(t *testing.T, labels []string, opts Options) *Model {
	t.Helper()
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{Label: label, PreviewTarget: label}
	}
	m, err := New(items, opts)
	require.NoError(t, err)
	return m
}

func press(m *Model, msg tea.KeyMsg) {
	m.Update(msg)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestInitialSelectionIsTopRank(t *testing.T) {
	m := newTestPicker(t, []string{"alpha", "beta"}, Options{})
	assert.Equal(t, 0, m.selected)
}

func TestEmptyCatalogHasNoSelection(t *testing.T) {
	m := newTestPicker(t, nil, Options{})
	assert.Equal(t, -1, m.selected)
}

func TestSelectionNoneIffNoMatches(t *testing.T) {
	m := newTestPicker(t, []string{"alpha", "beta"}, Options{})

	typeText(m, "zzz")
	assert.Equal(t, -1, m.selected)

	press(m, keyOf(tea.KeyBackspace))
	press(m, keyOf(tea.KeyBackspace))
	press(m, keyOf(tea.KeyBackspace))
	assert.Equal(t, 0, m.selected)
}

func TestSelectionClampsWhenMatchesShrink(t *testing.T) {
	m := newTestPicker(t, []string{"aa", "ab", "abc"}, Options{})

	// Highlight the last rank, then shrink the match set under it.
	press(m, keyOf(tea.KeyUp))
	press(m, keyOf(tea.KeyUp))
	require.Equal(t, 2, m.selected)

	typeText(m, "ab")
	matched := m.matcher.Snapshot().Matched
	require.Equal(t, 2, matched)
	assert.Equal(t, 1, m.selected)
}

func TestNavigationWrapsBothWays(t *testing.T) {
	m := newTestPicker(t, []string{"one", "two", "three"}, Options{})

	press(m, keyOf(tea.KeyDown)) // from rank 0, away from the input: wrap
	assert.Equal(t, 2, m.selected)
	press(m, keyOf(tea.KeyUp))
	assert.Equal(t, 0, m.selected)

	press(m, keyOf(tea.KeyUp))
	assert.Equal(t, 1, m.selected)
	press(m, keyOf(tea.KeyUp))
	assert.Equal(t, 2, m.selected)
	press(m, keyOf(tea.KeyUp)) // past the last rank: wrap to 0
	assert.Equal(t, 0, m.selected)
}

func TestNDownsThenNUpsReturnToStart(t *testing.T) {
	m := newTestPicker(t, []string{"a", "b", "c", "d", "e"}, Options{})

	for n := 1; n < 5; n++ {
		start := m.selected
		for i := 0; i < n; i++ {
			press(m, keyOf(tea.KeyDown))
		}
		for i := 0; i < n; i++ {
			press(m, keyOf(tea.KeyUp))
		}
		assert.Equal(t, start, m.selected, "n=%d", n)
	}
}

func TestNavigationInvertsWithInputPosition(t *testing.T) {
	bottom := newTestPicker(t, []string{"a", "b", "c"}, Options{InputPosition: InputBottom})
	top := newTestPicker(t, []string{"a", "b", "c"}, Options{InputPosition: InputTop})

	// With the input at the bottom the list grows upward, so the up key
	// moves away from rank 0; with the input at the top it moves toward it.
	press(bottom, keyOf(tea.KeyUp))
	assert.Equal(t, 1, bottom.selected)

	press(top, keyOf(tea.KeyUp))
	assert.Equal(t, 2, top.selected) // wraps from rank 0 to the last rank
}

func TestTypingFiltersAndConfirmReturnsChoice(t *testing.T) {
	m := newTestPicker(t, []string{"b/proj", "work/proj", "other/deep/proj"}, Options{})

	typeText(m, "wo")
	require.Equal(t, 1, m.matcher.Snapshot().Matched)

	press(m, keyOf(tea.KeyEnter))
	assert.Equal(t, StatusConfirmed, m.status)
	assert.Equal(t, "work/proj", m.choice.Label)
}

func TestConfirmWithoutSelectionIsNoop(t *testing.T) {
	m := newTestPicker(t, []string{"alpha"}, Options{})

	typeText(m, "zzz")
	press(m, keyOf(tea.KeyEnter))
	assert.Equal(t, StatusRunning, m.status)
}

func TestCancelEndsWithoutChoice(t *testing.T) {
	m := newTestPicker(t, []string{"alpha"}, Options{})

	press(m, keyOf(tea.KeyEsc))
	assert.Equal(t, StatusCancelled, m.status)
}

func TestEditingOperatesOnByteOffsets(t *testing.T) {
	m := newTestPicker(t, []string{"日本"}, Options{})

	typeText(m, "日本")
	assert.Equal(t, "日本", m.filter)
	assert.Equal(t, len("日本"), m.cursorPos)

	press(m, keyOf(tea.KeyLeft))
	assert.Equal(t, len("日"), m.cursorPos)

	press(m, keyOf(tea.KeyBackspace))
	assert.Equal(t, "本", m.filter)
	assert.Equal(t, 0, m.cursorPos)

	press(m, keyOf(tea.KeyDelete))
	assert.Equal(t, "", m.filter)
}

func TestBackspaceAtStartIsNoop(t *testing.T) {
	m := newTestPicker(t, []string{"alpha"}, Options{})

	press(m, keyOf(tea.KeyBackspace))
	assert.Equal(t, "", m.filter)
	assert.Equal(t, 0, m.cursorPos)
	assert.Equal(t, 1, m.matcher.Snapshot().Matched)
}

func TestInsertAtCursorMiddle(t *testing.T) {
	m := newTestPicker(t, []string{"abc"}, Options{})

	typeText(m, "ac")
	press(m, keyOf(tea.KeyLeft))
	typeText(m, "b")

	assert.Equal(t, "abc", m.filter)
	assert.Equal(t, 2, m.cursorPos)
}

func TestDeleteWordErasesSpacesThenWord(t *testing.T) {
	m := newTestPicker(t, []string{"x"}, Options{})

	typeText(m, "foo bar  ")
	press(m, keyOf(tea.KeyCtrlW))
	assert.Equal(t, "foo ", m.filter)
	assert.Equal(t, 4, m.cursorPos)

	press(m, keyOf(tea.KeyCtrlW))
	assert.Equal(t, "", m.filter)
}

func TestDeleteToLineStartAndEnd(t *testing.T) {
	m := newTestPicker(t, []string{"x"}, Options{})

	typeText(m, "abcdef")
	press(m, keyOf(tea.KeyLeft))
	press(m, keyOf(tea.KeyLeft))

	press(m, keyOf(tea.KeyCtrlU))
	assert.Equal(t, "ef", m.filter)
	assert.Equal(t, 0, m.cursorPos)

	press(m, keyOf(tea.KeyCtrlE)) // move to line end
	press(m, keyOf(tea.KeyCtrlA)) // and back to the start
	assert.Equal(t, 0, m.cursorPos)
}

func TestFilterClearRestoresFullList(t *testing.T) {
	m := newTestPicker(t, []string{"one", "two", "three"}, Options{})

	typeText(m, "tw")
	require.Equal(t, 1, m.matcher.Snapshot().Matched)

	press(m, keyOf(tea.KeyCtrlU))
	snapshot := m.matcher.Snapshot()
	assert.Equal(t, 3, snapshot.Matched)
	assert.Equal(t, "one", snapshot.Items[0].Label)
}

func TestRenderInputClampsLongQueries(t *testing.T) {
	m := newTestPicker(t, []string{"x"}, Options{})
	typeText(m, strings.Repeat("abcde", 10))

	line := m.renderInput(20)
	assert.LessOrEqual(t, runewidth.StringWidth(line), 20)
	assert.True(t, strings.HasPrefix(line, "> "))
	assert.Contains(t, line, "abcde") // the tail before the cursor stays visible
}

func TestRenderInputKeepsCursorVisibleMidQuery(t *testing.T) {
	m := newTestPicker(t, []string{"x"}, Options{})
	typeText(m, strings.Repeat("wxyz", 10))
	for i := 0; i < 5; i++ {
		press(m, keyOf(tea.KeyLeft))
	}

	line := m.renderInput(12)
	assert.LessOrEqual(t, runewidth.StringWidth(line), 12)
}

func TestRenderInputClampsWideRunes(t *testing.T) {
	m := newTestPicker(t, []string{"x"}, Options{})
	typeText(m, strings.Repeat("日本語", 10))

	line := m.renderInput(16)
	assert.LessOrEqual(t, runewidth.StringWidth(line), 16)
}

func TestViewShowsCountsAndPrompt(t *testing.T) {
	m := newTestPicker(t, []string{"alpha", "beta"}, Options{})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	view := m.View()
	assert.Contains(t, view, "2/2")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, "alpha")
}

func TestViewMarksRunningSessions(t *testing.T) {
	items := []Item{
		{Label: "alpha", Running: true},
		{Label: "beta"},
	}
	m, err := New(items, Options{})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	assert.Contains(t, m.View(), "* alpha")
}

func TestViewBottomInputPutsTopRankNearestInput(t *testing.T) {
	m := newTestPicker(t, []string{"first", "second"}, Options{InputPosition: InputBottom})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Equal(t, 8, len(lines))

	var firstRow, secondRow int
	for i, line := range lines {
		if strings.Contains(line, "first") {
			firstRow = i
		}
		if strings.Contains(line, "second") {
			secondRow = i
		}
	}
	assert.Greater(t, firstRow, secondRow, "rank 0 renders below rank 1")
}
