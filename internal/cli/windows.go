package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tms/internal/config"
	"tms/internal/picker"
	"tms/internal/tmux"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Pick a window of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWindows()
	},
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func runWindows() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	t := tmux.New()
	out, err := t.ListWindows("#{window_index} #{window_name}", "")
	if err != nil {
		return fmt.Errorf("listing windows: %w", err)
	}

	var items []picker.Item
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, picker.Item{Label: line, PreviewTarget: line})
	}
	if len(items) == 0 {
		return fmt.Errorf("no windows to pick from")
	}

	p, err := picker.New(items, picker.Options{
		Preview:       picker.PreviewWindowPane,
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

	index, _, _ := strings.Cut(choice.Label, " ")
	return t.SelectWindow(index)
}
