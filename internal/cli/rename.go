package cli

import (
	"github.com/spf13/cobra"

	"tms/internal/tmux"
)

var renameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the current session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(args[0])
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(name string) error {
	t := tmux.New()
	if err := t.RenameSession(sanitizeName(name)); err != nil {
		return err
	}
	return t.RefreshClient()
}
