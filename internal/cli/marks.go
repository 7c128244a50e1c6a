package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"tms/internal/config"
	"tms/internal/session"
	"tms/internal/tmux"
)

var marksCmd = &cobra.Command{
	Use:   "marks",
	Short: "Manage bookmarked project paths",
}

var marksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all marks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, idx := range sortedMarkIndexes(cfg.Marks) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", idx, cfg.Marks[idx])
		}
		return nil
	},
}

var marksSetCmd = &cobra.Command{
	Use:   "set <index> [path]",
	Short: "Bookmark a path under an index (default: current directory)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		path := ""
		if len(args) == 2 {
			path = args[1]
		} else {
			path, err = os.Getwd()
			if err != nil {
				return err
			}
		}

		if cfg.Marks == nil {
			cfg.Marks = make(map[string]string)
		}
		cfg.Marks[args[0]] = path
		return cfg.Save()
	},
}

var marksOpenCmd = &cobra.Command{
	Use:   "open <index>",
	Short: "Jump to the session of a bookmarked path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		path, ok := cfg.Marks[args[0]]
		if !ok {
			return fmt.Errorf("no mark %q", args[0])
		}
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return err
		}

		s := session.New(filepath.Base(expanded), expanded, session.KindBookmark)
		return openSession(tmux.New(), s)
	},
}

var marksDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Remove a mark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if _, ok := cfg.Marks[args[0]]; !ok {
			return fmt.Errorf("no mark %q", args[0])
		}
		delete(cfg.Marks, args[0])
		return cfg.Save()
	},
}

func init() {
	marksCmd.AddCommand(marksListCmd, marksSetCmd, marksOpenCmd, marksDeleteCmd)
	rootCmd.AddCommand(marksCmd)
}

func sortedMarkIndexes(marks map[string]string) []string {
	indexes := make([]string, 0, len(marks))
	for idx := range marks {
		indexes = append(indexes, idx)
	}
	sort.Strings(indexes)
	return indexes
}
