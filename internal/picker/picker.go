package picker

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"tms/internal/config"
	"tms/internal/matcher"
)

// tickBudget caps how much scoring work one frame may spend.
const tickBudget = 10 * time.Millisecond

// Status is the picker's lifecycle state.
type Status int

const (
	StatusRunning Status = iota
	StatusConfirmed
	StatusCancelled
)

// InputPosition anchors the filter line.
type InputPosition int

const (
	InputBottom InputPosition = iota
	InputTop
)

// ParseInputPosition maps the config value onto an anchor; anything but
// "top" is the default bottom anchor.
func ParseInputPosition(s string) InputPosition {
	if strings.EqualFold(s, "top") {
		return InputTop
	}
	return InputBottom
}

// Item is one pickable entry.
type Item struct {
	Label         string
	PreviewTarget string      // pane target or directory path, depending on kind
	Preview       PreviewKind // overrides the picker-wide preview source when set
	Running       bool        // marks labels bound to a live session
}

// Options bundle everything the picker needs besides the items.
type Options struct {
	Preview       PreviewKind
	Capture       PaneCapturer
	InputPosition InputPosition
	Colors        *config.ColorConfig
	Keymap        map[string]string // sparse overrides, key -> action name
}

// Model is the interactive picker. It owns the matcher, the keymap and all
// cursor/selection state, and runs as a single cooperative loop: one input
// event, one state change, one frame.
type Model struct {
	items   []Item
	matcher *matcher.Matcher
	keymap  Keymap
	styles  Styles

	preview  PreviewKind
	capture  PaneCapturer
	inputPos InputPosition

	filter    string
	cursorPos int // byte offset into filter
	selected  int // index into the ranked matches, -1 for none

	status Status
	choice Item

	width  int
	height int
}

// New builds a picker over items. The matcher is seeded exactly once, here.
func New(items []Item, opts Options) (*Model, error) {
	keymap, err := DefaultKeymap().WithOverrides(opts.Keymap)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}

	m := &Model{
		items:    items,
		matcher:  matcher.New(labels),
		keymap:   keymap,
		styles:   NewStyles(opts.Colors),
		preview:  opts.Preview,
		capture:  opts.Capture,
		inputPos: opts.InputPosition,
		selected: -1,
	}
	m.refresh()
	return m, nil
}

// Run drives the picker to completion. The alternate screen and raw mode
// are held by the bubbletea program and released on every exit path. The
// returned bool is false when the user cancelled.
func (m *Model) Run() (Item, bool, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Item{}, false, fmt.Errorf("tui: %w", err)
	}

	result := final.(*Model)
	if result.status == StatusConfirmed {
		return result.choice, true, nil
	}
	return Item{}, false, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}

	m.refresh()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	action, bound := m.keymap.Lookup(msg)
	if !bound {
		if msg.Type == tea.KeyRunes && !msg.Alt {
			m.insertRunes(string(msg.Runes))
		}
		return nil
	}

	switch action {
	case ActionCancel:
		m.status = StatusCancelled
		return tea.Quit
	case ActionConfirm:
		if item, ok := m.selectedItem(); ok {
			m.status = StatusConfirmed
			m.choice = item
			return tea.Quit
		}
		// Confirm with nothing selected is a no-op.
	case ActionBackspace:
		m.backspace()
	case ActionDelete:
		m.deleteAtCursor()
	case ActionMoveUp:
		m.moveUp()
	case ActionMoveDown:
		m.moveDown()
	case ActionCursorLeft:
		m.cursorLeft()
	case ActionCursorRight:
		m.cursorRight()
	case ActionDeleteWord:
		m.deleteWord()
	case ActionDeleteToLineStart:
		m.deleteToLineStart()
	case ActionDeleteToLineEnd:
		m.deleteToLineEnd()
	case ActionMoveToLineStart:
		m.cursorPos = 0
	case ActionMoveToLineEnd:
		m.cursorPos = len(m.filter)
	}
	return nil
}

// refresh ticks the matcher and reconciles the selection with the new
// match count. It runs once per loop iteration, unconditionally.
func (m *Model) refresh() {
	m.matcher.Tick(tickBudget)

	snapshot := m.matcher.Snapshot()
	switch {
	case snapshot.Matched == 0:
		m.selected = -1
	case m.selected < 0:
		m.selected = 0
	case m.selected >= snapshot.Matched:
		m.selected = snapshot.Matched - 1
	}
}

// selectedItem resolves the current rank back to the item it labels.
func (m *Model) selectedItem() (Item, bool) {
	if m.selected < 0 {
		return Item{}, false
	}
	snapshot := m.matcher.Snapshot()
	if m.selected >= len(snapshot.Items) {
		return Item{}, false
	}
	return m.items[snapshot.Items[m.selected].Index], true
}

// setFilter reparses only when the edit actually changed the text.
func (m *Model) setFilter(filter string) {
	if filter == m.filter {
		return
	}
	m.filter = filter
	m.matcher.Reparse(filter)
}

func (m *Model) insertRunes(s string) {
	if s == "" {
		return
	}
	m.setFilter(m.filter[:m.cursorPos] + s + m.filter[m.cursorPos:])
	m.cursorPos += len(s)
}

func (m *Model) backspace() {
	if m.cursorPos == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(m.filter[:m.cursorPos])
	m.setFilter(m.filter[:m.cursorPos-size] + m.filter[m.cursorPos:])
	m.cursorPos -= size
}

func (m *Model) deleteAtCursor() {
	if m.cursorPos == len(m.filter) {
		return
	}
	_, size := utf8.DecodeRuneInString(m.filter[m.cursorPos:])
	m.setFilter(m.filter[:m.cursorPos] + m.filter[m.cursorPos+size:])
}

func (m *Model) cursorLeft() {
	if m.cursorPos == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(m.filter[:m.cursorPos])
	m.cursorPos -= size
}

func (m *Model) cursorRight() {
	if m.cursorPos == len(m.filter) {
		return
	}
	_, size := utf8.DecodeRuneInString(m.filter[m.cursorPos:])
	m.cursorPos += size
}

// deleteWord erases the run of spaces directly before the cursor, then the
// run of non-spaces before that.
func (m *Model) deleteWord() {
	start := m.cursorPos
	for start > 0 && m.filter[start-1] == ' ' {
		start--
	}
	for start > 0 && m.filter[start-1] != ' ' {
		start--
	}
	if start == m.cursorPos {
		return
	}
	m.setFilter(m.filter[:start] + m.filter[m.cursorPos:])
	m.cursorPos = start
}

func (m *Model) deleteToLineStart() {
	if m.cursorPos == 0 {
		return
	}
	m.setFilter(m.filter[m.cursorPos:])
	m.cursorPos = 0
}

func (m *Model) deleteToLineEnd() {
	if m.cursorPos == len(m.filter) {
		return
	}
	m.setFilter(m.filter[:m.cursorPos])
}

// moveUp and moveDown are inverted at the input-position layer: the key
// that points up on the keyboard always moves the highlight visually up,
// whichever way the list grows.
func (m *Model) moveUp() {
	if m.inputPos == InputBottom {
		m.nextRank()
	} else {
		m.prevRank()
	}
}

func (m *Model) moveDown() {
	if m.inputPos == InputBottom {
		m.prevRank()
	} else {
		m.nextRank()
	}
}

// nextRank moves the selection away from rank 0, wrapping to 0 past the
// last match.
func (m *Model) nextRank() {
	matched := m.matcher.Snapshot().Matched
	if matched == 0 {
		return
	}
	switch {
	case m.selected < 0:
		m.selected = 0
	case m.selected >= matched-1:
		m.selected = 0
	default:
		m.selected++
	}
}

// prevRank moves the selection toward rank 0, wrapping to the last match.
func (m *Model) prevRank() {
	matched := m.matcher.Snapshot().Matched
	if matched == 0 {
		return
	}
	switch {
	case m.selected < 0:
		m.selected = 0
	case m.selected == 0:
		m.selected = matched - 1
	default:
		m.selected--
	}
}
