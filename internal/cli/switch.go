package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tms/internal/config"
	"tms/internal/picker"
	"tms/internal/tmux"
)

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Pick one of the running sessions and switch to it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitch()
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	t := tmux.New()
	current, _ := t.DisplayMessage("#S")

	out, err := t.ListSessions("#S")
	if err != nil {
		return fmt.Errorf("no running tmux server")
	}

	var items []picker.Item
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == current {
			continue
		}
		items = append(items, picker.Item{Label: name, PreviewTarget: name, Running: true})
	}
	if len(items) == 0 {
		return fmt.Errorf("no other sessions to switch to")
	}

	p, err := picker.New(items, picker.Options{
		Preview:       picker.PreviewSessionPane,
		Capture:       t,
		InputPosition: picker.ParseInputPosition(cfg.InputPosition),
		Colors:        cfg.Colors,
		Keymap:        cfg.Keymap,
	})
	if err != nil {
		return err
	}

	choice, ok, err := p.Run()
	if err != nil || !ok {
		return err
	}
	return t.SwitchTo(choice.Label)
}
