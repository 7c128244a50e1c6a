package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrNotARepository marks a path that cannot be opened as a git repository.
// Discovery treats it as "keep walking", never as a failure.
var ErrNotARepository = errors.New("not a git repository")

// ErrNonUTF8Path marks a path that cannot be represented as text. The
// candidate it belongs to is skipped with a descriptive error.
var ErrNonUTF8Path = errors.New("path is not valid utf-8")

// Repository is a read-only view of a git checkout found on disk.
type Repository struct {
	path     string // checkout root, or the git dir itself for bare repos
	gitDir   string
	bare     bool
	worktree bool
}

// Submodule is one checked-out submodule of a repository.
type Submodule struct {
	Name string
	Path string
}

// Worktree is one linked worktree of a (usually bare) repository.
type Worktree struct {
	Name string
	Path string
}

// Open inspects path and returns a Repository when it is one. Detection is
// purely filesystem based: a .git directory means a regular checkout, a .git
// file pointing elsewhere means a linked worktree or submodule checkout, and
// a directory that itself holds HEAD/objects/refs is a bare repository.
func Open(path string) (*Repository, error) {
	if !utf8.ValidString(path) {
		return nil, fmt.Errorf("%q: %w", path, ErrNonUTF8Path)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotARepository)
	}

	gitPath := filepath.Join(path, ".git")
	fi, err := os.Stat(gitPath)
	switch {
	case err == nil && fi.IsDir():
		return &Repository{path: path, gitDir: gitPath}, nil
	case err == nil:
		target, err := readGitDirFile(gitPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, ErrNotARepository)
		}
		return &Repository{
			path:     path,
			gitDir:   target,
			worktree: strings.Contains(filepath.ToSlash(target), "/worktrees/"),
		}, nil
	case isBareDir(path):
		return &Repository{path: path, gitDir: path, bare: true}, nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrNotARepository)
	}
}

// readGitDirFile parses a `.git` file of the form "gitdir: <path>".
func readGitDirFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return "", fmt.Errorf("%s: missing gitdir pointer", path)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

func isBareDir(path string) bool {
	if fi, err := os.Stat(filepath.Join(path, "HEAD")); err != nil || fi.IsDir() {
		return false
	}
	for _, dir := range []string{"objects", "refs"} {
		if fi, err := os.Stat(filepath.Join(path, dir)); err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}

func (r *Repository) IsBare() bool     { return r.bare }
func (r *Repository) IsWorktree() bool { return r.worktree }

// Path returns the checkout root the repository was opened at.
func (r *Repository) Path() string { return r.path }

// GitDir returns the repository's metadata directory.
func (r *Repository) GitDir() string { return r.gitDir }

// WorkDir returns the directory a session should start in. Bare repositories
// have no working tree, so the git dir itself is returned.
func (r *Repository) WorkDir() string { return r.path }

// Name returns the repository's display basename. Bare repositories
// conventionally end in ".git"; the suffix is dropped.
func (r *Repository) Name() string {
	base := filepath.Base(r.path)
	if r.bare {
		base = strings.TrimSuffix(base, ".git")
	}
	return base
}

// Submodules lists the checked-out submodules recorded in .gitmodules.
// A missing or empty .gitmodules is not an error. Submodule paths that are
// not checked out (or not openable) are skipped.
func (r *Repository) Submodules() ([]Submodule, error) {
	if r.bare {
		return nil, nil
	}

	f, err := os.Open(filepath.Join(r.path, ".gitmodules"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading .gitmodules: %w", err)
	}
	defer f.Close()

	var submodules []Submodule
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "path" {
			continue
		}
		rel := strings.TrimSpace(value)
		if rel == "" {
			continue
		}
		abs := filepath.Join(r.path, filepath.FromSlash(rel))
		if _, err := Open(abs); err != nil {
			continue
		}
		submodules = append(submodules, Submodule{Name: filepath.Base(rel), Path: abs})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading .gitmodules: %w", err)
	}

	return submodules, nil
}

// Worktrees lists the linked worktrees registered under the git dir, with
// their checkout paths resolved from each worktree's gitdir file.
func (r *Repository) Worktrees() ([]Worktree, error) {
	entries, err := os.ReadDir(filepath.Join(r.gitDir, "worktrees"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing worktrees: %w", err)
	}

	var worktrees []Worktree
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.gitDir, "worktrees", entry.Name(), "gitdir"))
		if err != nil {
			continue
		}
		checkout := strings.TrimSpace(string(data))
		checkout = strings.TrimSuffix(checkout, string(filepath.Separator)+".git")
		checkout = strings.TrimSuffix(checkout, "/.git")
		worktrees = append(worktrees, Worktree{Name: entry.Name(), Path: checkout})
	}

	return worktrees, nil
}
