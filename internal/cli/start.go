package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"tms/internal/config"
	"tms/internal/session"
	"tms/internal/tmux"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the configured default session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStart()
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DefaultSession == "" {
		return fmt.Errorf("no default_session configured")
	}

	path, err := config.ExpandPath(cfg.DefaultSession)
	if err != nil {
		return err
	}

	s := session.New(filepath.Base(path), path, session.KindPath)
	return openSession(tmux.New(), s)
}
