package discovery

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tms/internal/git"
	"tms/internal/session"
)

// ErrNoSearchRoots is returned when discovery is started without any roots.
var ErrNoSearchRoots = errors.New("no search roots configured")

// SearchRoot seeds one traversal. Depth 0 means "test this path only,
// never descend".
type SearchRoot struct {
	Path  string
	Depth int
}

// ExcludeFilter is a compiled multi-pattern literal matcher over path
// strings. A path matching any literal is discarded before it is opened
// or descended into.
type ExcludeFilter struct {
	literals []string
}

func NewExcludeFilter(literals []string) ExcludeFilter {
	compiled := make([]string, 0, len(literals))
	for _, l := range literals {
		if l != "" {
			compiled = append(compiled, l)
		}
	}
	return ExcludeFilter{literals: compiled}
}

func (f ExcludeFilter) Matches(path string) bool {
	for _, l := range f.literals {
		if strings.Contains(path, l) {
			return true
		}
	}
	return false
}

// Options control what the traversal emits.
type Options struct {
	SearchSubmodules    bool
	RecursiveSubmodules bool
	IncludeNonGit       bool
}

type queueItem struct {
	path  string
	depth int
	root  bool // seeded from config, not reached by descent
}

// FindSessions walks the search roots breadth-first and returns a multimap
// of candidate name to the candidates sharing it. Collisions are expected;
// the caller resolves them with session.Deduplicate. Discovery is
// best-effort: unreadable subtrees are logged and skipped.
func FindSessions(roots []SearchRoot, filter ExcludeFilter, opts Options) (map[string][]session.Session, error) {
	if len(roots) == 0 {
		return nil, ErrNoSearchRoots
	}

	found := make(map[string][]session.Session)
	add := func(s session.Session) {
		found[s.Name] = append(found[s.Name], s)
	}

	queue := make([]queueItem, 0, len(roots))
	for _, root := range roots {
		queue = append(queue, queueItem{path: root.Path, depth: root.Depth, root: true})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if filter.Matches(item.path) {
			continue
		}

		repo, err := git.Open(item.path)
		if err == nil {
			if repo.IsWorktree() {
				// Worktree checkouts belong to the repository that owns
				// them; listing both would duplicate the project.
				continue
			}
			add(session.New(repo.Name(), repo.WorkDir(), session.KindRepository))
			if opts.SearchSubmodules {
				visited := map[string]bool{canonical(item.path): true}
				addSubmodules(repo, repo.Name(), opts.RecursiveSubmodules, visited, add)
			}
			continue
		}
		if errors.Is(err, git.ErrNonUTF8Path) {
			log.Printf("skipping candidate: %v", err)
			continue
		}

		info, statErr := os.Stat(item.path)
		if statErr != nil || !info.IsDir() {
			continue
		}

		// Intermediate directories are traversal nodes, not projects; only
		// a configured root is worth offering without a repository in it.
		if opts.IncludeNonGit && item.root {
			add(session.New(filepath.Base(item.path), item.path, session.KindPath))
		}

		if item.depth == 0 {
			continue
		}
		entries, readErr := os.ReadDir(item.path)
		if readErr != nil {
			// Typically permission denied; skip the subtree and move on.
			log.Printf("skipping %s: %v", item.path, readErr)
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			queue = append(queue, queueItem{
				path:  filepath.Join(item.path, entry.Name()),
				depth: item.depth - 1,
			})
		}
	}

	return found, nil
}

// addSubmodules emits one candidate per checked-out submodule, named
// parent>submodule. Nested submodules are followed only when recursive is
// set; visited canonical paths guard against gitlink cycles.
func addSubmodules(repo *git.Repository, parentName string, recursive bool, visited map[string]bool, add func(session.Session)) {
	submodules, err := repo.Submodules()
	if err != nil {
		log.Printf("listing submodules of %s: %v", repo.Path(), err)
		return
	}

	for _, sub := range submodules {
		canon := canonical(sub.Path)
		if visited[canon] {
			continue
		}
		visited[canon] = true

		name := parentName + ">" + sub.Name
		add(session.New(name, sub.Path, session.KindSubmodule))

		if !recursive {
			continue
		}
		subRepo, err := git.Open(sub.Path)
		if err != nil {
			continue
		}
		addSubmodules(subRepo, name, recursive, visited, add)
	}
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
