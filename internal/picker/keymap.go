package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is one picker operation a key can be bound to.
type Action int

const (
	ActionNoop Action = iota
	ActionCancel
	ActionConfirm
	ActionBackspace
	ActionDelete
	ActionMoveUp
	ActionMoveDown
	ActionCursorLeft
	ActionCursorRight
	ActionDeleteWord
	ActionDeleteToLineStart
	ActionDeleteToLineEnd
	ActionMoveToLineStart
	ActionMoveToLineEnd

	actionCount
)

// actionNames are the configuration-facing action identifiers.
var actionNames = map[string]Action{
	"":                     ActionNoop,
	"noop":                 ActionNoop,
	"cancel":               ActionCancel,
	"confirm":              ActionConfirm,
	"backspace":            ActionBackspace,
	"delete":               ActionDelete,
	"move_up":              ActionMoveUp,
	"move_down":            ActionMoveDown,
	"cursor_left":          ActionCursorLeft,
	"cursor_right":         ActionCursorRight,
	"delete_word":          ActionDeleteWord,
	"delete_to_line_start": ActionDeleteToLineStart,
	"delete_to_line_end":   ActionDeleteToLineEnd,
	"move_to_line_start":   ActionMoveToLineStart,
	"move_to_line_end":     ActionMoveToLineEnd,
}

// Keymap is a closed mapping from keys to actions, held as one binding per
// action. A key belongs to at most one action; unmapped printable keys fall
// through to literal insertion.
type Keymap map[Action]key.Binding

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		ActionCancel:            key.NewBinding(key.WithKeys("ctrl+c", "esc")),
		ActionConfirm:           key.NewBinding(key.WithKeys("enter")),
		ActionBackspace:         key.NewBinding(key.WithKeys("backspace")),
		ActionDelete:            key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		ActionMoveUp:            key.NewBinding(key.WithKeys("up", "ctrl+k", "ctrl+p")),
		ActionMoveDown:          key.NewBinding(key.WithKeys("down", "ctrl+j", "ctrl+n")),
		ActionCursorLeft:        key.NewBinding(key.WithKeys("left")),
		ActionCursorRight:       key.NewBinding(key.WithKeys("right")),
		ActionDeleteWord:        key.NewBinding(key.WithKeys("ctrl+w")),
		ActionDeleteToLineStart: key.NewBinding(key.WithKeys("ctrl+u")),
		ActionMoveToLineStart:   key.NewBinding(key.WithKeys("ctrl+a", "home")),
		ActionMoveToLineEnd:     key.NewBinding(key.WithKeys("ctrl+e", "end")),
	}
}

// WithOverrides layers sparse config bindings (key string -> action name)
// over the keymap. An overridden key is first released from whichever
// action holds it; binding a key to "noop" just releases it.
func (k Keymap) WithOverrides(overrides map[string]string) (Keymap, error) {
	merged := make(Keymap, len(k))
	for action, binding := range k {
		merged[action] = binding
	}

	for keyName, actionName := range overrides {
		action, ok := actionNames[actionName]
		if !ok {
			return nil, fmt.Errorf("keymap: unknown action %q for key %q", actionName, keyName)
		}

		for a, binding := range merged {
			merged[a] = withoutKey(binding, keyName)
		}
		if action == ActionNoop {
			continue
		}
		binding := merged[action]
		merged[action] = key.NewBinding(key.WithKeys(append(binding.Keys(), keyName)...))
	}

	return merged, nil
}

func withoutKey(binding key.Binding, keyName string) key.Binding {
	keys := make([]string, 0, len(binding.Keys()))
	for _, k := range binding.Keys() {
		if k != keyName {
			keys = append(keys, k)
		}
	}
	return key.NewBinding(key.WithKeys(keys...))
}

// Lookup resolves a key event to its action. Actions are checked in a fixed
// order so dispatch is deterministic.
func (k Keymap) Lookup(msg tea.KeyMsg) (Action, bool) {
	for action := Action(0); action < actionCount; action++ {
		binding, ok := k[action]
		if !ok {
			continue
		}
		if key.Matches(msg, binding) {
			return action, true
		}
	}
	return ActionNoop, false
}
