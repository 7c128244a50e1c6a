package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tms/internal/tmux"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Print the running sessions, current one highlighted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSessions(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

// runSessions prints one line suitable for a status bar: every session name,
// the attached one wrapped in parentheses.
func runSessions(cmd *cobra.Command) error {
	t := tmux.New()

	current, _ := t.DisplayMessage("#S")
	out, err := t.ListSessions("#S")
	if err != nil {
		return err
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if name == current {
			name = "(" + name + ")"
		}
		names = append(names, name)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " "))
	return nil
}
