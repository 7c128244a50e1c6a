package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"tms/internal/config"
	"tms/internal/discovery"
	"tms/internal/git"
	"tms/internal/picker"
	"tms/internal/session"
	"tms/internal/tmux"
)

var rootCmd = &cobra.Command{
	Use:   "tms",
	Short: "Fuzzy-pick a project and jump to its tmux session",
	Long: `tms scans the configured search directories for git repositories,
deduplicates colliding project names and opens a fuzzy picker. Confirming a
project creates its tmux session when needed and switches the client to it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoot()
	},
}

// Execute runs the CLI. The caller owns error reporting and the exit code.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	container, err := buildCatalog(cfg)
	if err != nil {
		return err
	}

	t := tmux.New()
	items := catalogItems(container, cfg, t)
	if len(items) == 0 {
		return fmt.Errorf("no projects found under the configured search dirs")
	}

	p, err := picker.New(items, picker.Options{
		Preview:       picker.PreviewDirectory,
		Capture:       t,
		InputPosition: picker.ParseInputPosition(cfg.InputPosition),
		Colors:        cfg.Colors,
		Keymap:        cfg.Keymap,
	})
	if err != nil {
		return err
	}

	choice, ok, err := p.Run()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	selected, found := container.Find(choice.Label)
	if !found {
		// A live session with no matching project: just switch.
		return t.SwitchTo(sanitizeName(choice.Label))
	}
	return openSession(t, selected)
}

// buildCatalog discovers candidates and folds in the configured marks.
func buildCatalog(cfg *config.Config) (session.Container, error) {
	roots, err := cfg.SearchRoots()
	if err != nil {
		return nil, err
	}

	filter := discovery.NewExcludeFilter(cfg.ExcludedDirs)
	groups, err := discovery.FindSessions(roots, filter, discovery.Options{
		SearchSubmodules:    cfg.SearchSubmodules,
		RecursiveSubmodules: cfg.RecursiveSubmodules,
		IncludeNonGit:       cfg.IncludeNonGit,
	})
	if err != nil {
		return nil, err
	}

	container := session.BuildContainer(groups, cfg.DisplayFullPath)

	for _, path := range sortedMarkPaths(cfg.Marks) {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			log.Printf("skipping mark %s: %v", path, err)
			continue
		}
		name := filepath.Base(expanded)
		if _, exists := container.Find(name); exists {
			continue
		}
		container.Insert(name, session.New(name, expanded, session.KindBookmark))
	}

	return container, nil
}

func sortedMarkPaths(marks map[string]string) []string {
	indexes := make([]string, 0, len(marks))
	for idx := range marks {
		indexes = append(indexes, idx)
	}
	sort.Strings(indexes)

	paths := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		paths = append(paths, marks[idx])
	}
	return paths
}

// catalogItems turns the catalog into picker items, marking entries whose
// session is already running and appending live sessions that match no
// discovered project.
func catalogItems(container session.Container, cfg *config.Config, t *tmux.Tmux) []picker.Item {
	running := liveSessions(t)

	names := container.List()
	items := make([]picker.Item, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		s, _ := container.Find(name)
		sessionName := sanitizeName(name)
		seen[sessionName] = true
		items = append(items, picker.Item{
			Label:         name,
			PreviewTarget: s.Path,
			Running:       running[sessionName],
		})
	}

	// Sessions without a discovered project preview their own pane, not a
	// directory listing.
	for name := range running {
		if seen[name] {
			continue
		}
		items = append(items, picker.Item{
			Label:         name,
			PreviewTarget: name,
			Preview:       picker.PreviewSessionPane,
			Running:       true,
		})
	}
	return items
}

// liveSessions returns the names of all sessions on the server. A dead or
// missing server just means nothing is running.
func liveSessions(t *tmux.Tmux) map[string]bool {
	out, err := t.ListSessions("#S")
	if err != nil {
		return nil
	}
	running := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			running[name] = true
		}
	}
	return running
}

// sanitizeName makes a display name acceptable to tmux, which reserves '.'
// in session names.
func sanitizeName(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// openSession switches to the candidate's session, creating it first when it
// does not exist yet.
func openSession(t *tmux.Tmux, s session.Session) error {
	name := sanitizeName(s.Name)
	if s.Kind == session.KindLiveSession || t.SessionExists(name) {
		return t.SwitchTo(name)
	}
	if err := createSession(t, name, s.Path); err != nil {
		return err
	}
	return t.SwitchTo(name)
}

// createSession starts a detached session rooted at path. Bare repositories
// get one window per worktree, with main/master first; everything else gets
// a single window in the work dir. A .tms-create script in the root runs in
// the first pane after creation.
func createSession(t *tmux.Tmux, name, path string) error {
	repo, err := git.Open(path)
	if err == nil && repo.IsBare() {
		return createBareSession(t, name, repo)
	}

	if err := t.NewSession(name, path); err != nil {
		return err
	}
	runCreateScript(t, name, path)
	return nil
}

func createBareSession(t *tmux.Tmux, name string, repo *git.Repository) error {
	worktrees, err := repo.Worktrees()
	if err != nil {
		return fmt.Errorf("listing worktrees of %s: %w", repo.Path(), err)
	}
	if len(worktrees) == 0 {
		return t.NewSession(name, repo.Path())
	}

	sort.SliceStable(worktrees, func(i, j int) bool {
		return worktreeRank(worktrees[i].Name) < worktreeRank(worktrees[j].Name)
	})

	if err := t.NewSession(name, repo.Path()); err != nil {
		return err
	}
	for _, wt := range worktrees {
		if err := t.NewWindow(name, wt.Name, wt.Path); err != nil {
			return err
		}
	}
	// The initial window sits in the bare dir itself; only the worktree
	// windows are useful.
	if err := t.KillWindow(name + ":^"); err != nil {
		return err
	}
	runCreateScript(t, name, worktrees[0].Path)
	return nil
}

// worktreeRank orders default branches ahead of everything else.
func worktreeRank(name string) int {
	switch name {
	case "main":
		return 0
	case "master":
		return 1
	default:
		return 2
	}
}

// runCreateScript types the project's bootstrap script into the session's
// first pane. Best-effort: a failure is logged, never fatal.
func runCreateScript(t *tmux.Tmux, name, path string) {
	script := filepath.Join(path, ".tms-create")
	if _, err := os.Stat(script); err != nil {
		return
	}
	if err := t.SendKeys("sh "+script, name); err != nil {
		log.Printf("running %s: %v", script, err)
	}
}
