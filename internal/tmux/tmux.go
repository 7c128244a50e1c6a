package tmux

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tmux wraps the tmux binary on one socket. Every method is a thin argv
// builder around a single tmux invocation.
type Tmux struct {
	socket string
	run    func(args ...string) (string, error)
}

// New returns a client for the socket named by $TMS_TMUX_SOCKET, falling
// back to tmux's "default".
func New() *Tmux {
	socket := os.Getenv("TMS_TMUX_SOCKET")
	if socket == "" {
		socket = "default"
	}
	t := &Tmux{socket: socket}
	t.run = t.execRun
	return t
}

func (t *Tmux) execRun(args ...string) (string, error) {
	cmd := exec.Command("tmux", append([]string{"-L", t.socket}, args...)...)
	cmd.Stdin = os.Stdin
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("tmux %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// sessions

func (t *Tmux) NewSession(name, path string) error {
	args := []string{"new-session", "-d"}
	if name != "" {
		args = append(args, "-s", name)
	}
	if path != "" {
		args = append(args, "-c", path)
	}
	_, err := t.run(args...)
	return err
}

func (t *Tmux) ListSessions(format string) (string, error) {
	return t.run("list-sessions", "-F", format)
}

// CurrentSession returns the attached session formatted by format.
func (t *Tmux) CurrentSession(format string) (string, error) {
	out, err := t.run("list-sessions", "-F", format, "-f", "#{session_attached}")
	return strings.TrimSpace(out), err
}

func (t *Tmux) KillSession(name string) error {
	_, err := t.run("kill-session", "-t", name)
	return err
}

func (t *Tmux) RenameSession(name string) error {
	_, err := t.run("rename-session", name)
	return err
}

func (t *Tmux) SwitchClient(name string) error {
	_, err := t.run("switch-client", "-t", name)
	return err
}

// AttachSession attaches the calling terminal to a session. Unlike the
// other wrappers it inherits stdout/stderr: tmux takes over the terminal.
func (t *Tmux) AttachSession(name string) error {
	cmd := exec.Command("tmux", "-L", t.socket, "attach-session", "-t", name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// SwitchTo moves the user to a session: switch-client when already inside
// tmux, attach otherwise, with attach as the fallback when switching fails.
func (t *Tmux) SwitchTo(name string) error {
	if !IsInSession() {
		return t.AttachSession(name)
	}
	if err := t.SwitchClient(name); err != nil {
		return t.AttachSession(name)
	}
	return nil
}

// SessionExists reports whether a session with exactly this name is known
// to the server.
func (t *Tmux) SessionExists(name string) bool {
	sessions, err := t.ListSessions("#S")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(sessions, "\n") {
		if strings.Trim(line, "'\n") == name {
			return true
		}
	}
	return false
}

// windows

func (t *Tmux) NewWindow(session, name, path string) error {
	args := []string{"new-window"}
	if name != "" {
		args = append(args, "-n", name)
	}
	if path != "" {
		args = append(args, "-c", path)
	}
	if session != "" {
		args = append(args, "-t", session)
	}
	_, err := t.run(args...)
	return err
}

func (t *Tmux) ListWindows(format, session string) (string, error) {
	args := []string{"list-windows", "-F", format}
	if session != "" {
		args = append(args, "-t", session)
	}
	return t.run(args...)
}

func (t *Tmux) SelectWindow(target string) error {
	_, err := t.run("select-window", "-t", target)
	return err
}

func (t *Tmux) KillWindow(target string) error {
	_, err := t.run("kill-window", "-t", target)
	return err
}

func (t *Tmux) MoveWindow(source, target string) error {
	_, err := t.run("move-window", "-s", source, "-t", target)
	return err
}

// miscellaneous

// SendKeys types command into a pane and presses Enter.
func (t *Tmux) SendKeys(command, pane string) error {
	args := []string{"send-keys"}
	if pane != "" {
		args = append(args, "-t", pane)
	}
	args = append(args, command, "Enter")
	_, err := t.run(args...)
	return err
}

// CapturePane returns the visible contents of a pane with color escapes
// preserved, for the picker preview.
func (t *Tmux) CapturePane(target string) (string, error) {
	return t.run("capture-pane", "-ep", "-t", target)
}

func (t *Tmux) DisplayMessage(format string) (string, error) {
	out, err := t.run("display-message", "-p", format)
	return strings.TrimSpace(out), err
}

func (t *Tmux) RefreshClient() error {
	_, err := t.run("refresh-client", "-S")
	return err
}

// IsInSession reports whether the current process runs inside tmux.
func IsInSession() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}
