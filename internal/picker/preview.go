package picker

import (
	"os/exec"
	"strings"
)

// PreviewKind selects where preview text for the highlighted item comes
// from.
type PreviewKind int

const (
	PreviewNone PreviewKind = iota
	PreviewSessionPane
	PreviewWindowPane
	PreviewDirectory
)

// PaneCapturer is the one multiplexer operation the picker consumes.
type PaneCapturer interface {
	CapturePane(target string) (string, error)
}

// listDirectory is swapped out in tests.
var listDirectory = func(path string) (string, error) {
	out, err := exec.Command("ls", "-1", path).Output()
	return string(out), err
}

// previewText fetches the preview for the highlighted item. An item can
// carry its own preview source, e.g. a live session mixed into a directory
// catalog. Failures render as an empty pane; the preview is best-effort.
func (m *Model) previewText(item Item) string {
	kind := m.preview
	if item.Preview != PreviewNone {
		kind = item.Preview
	}

	var out string
	var err error

	switch kind {
	case PreviewSessionPane:
		out, err = m.capture.CapturePane(item.PreviewTarget)
	case PreviewWindowPane:
		target, _, _ := strings.Cut(item.PreviewTarget, " ")
		out, err = m.capture.CapturePane(target)
	case PreviewDirectory:
		out, err = listDirectory(item.PreviewTarget)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return out
}
