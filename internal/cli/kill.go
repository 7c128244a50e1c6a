package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tms/internal/tmux"
)

var killCmd = &cobra.Command{
	Use:   "kill",
	Short: "Kill the current session and switch to another one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKill()
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
}

func runKill() error {
	t := tmux.New()

	current, err := t.CurrentSession("#S")
	if err != nil {
		return fmt.Errorf("no current session: %w", err)
	}
	if current == "" {
		return fmt.Errorf("no current session")
	}

	out, err := t.ListSessions("#S")
	if err != nil {
		return err
	}

	// Land on some other session before the current one goes away.
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == current {
			continue
		}
		if err := t.SwitchTo(name); err != nil {
			return err
		}
		break
	}

	if err := t.KillSession(current); err != nil {
		return err
	}
	// A status bar listing sessions should drop the dead one right away.
	_ = t.RefreshClient()
	return nil
}
