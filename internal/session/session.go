package session

import (
	"sort"
)

// Kind identifies what a discovered candidate points at.
type Kind int

const (
	KindRepository Kind = iota
	KindSubmodule
	KindPath
	KindBookmark
	KindLiveSession
)

// Session is one selectable candidate: a repository, a submodule checkout,
// a plain directory, a bookmarked path or a running multiplexer session.
type Session struct {
	Name string // display label, rewritten by Deduplicate on collisions
	Path string
	Kind Kind
}

func New(name, path string, kind Kind) Session {
	return Session{Name: name, Path: path, Kind: kind}
}

// Container holds the final catalog of candidates keyed by their unique
// display name.
type Container map[string]Session

// Find returns the session registered under name.
func (c Container) Find(name string) (Session, bool) {
	s, ok := c[name]
	return s, ok
}

// Insert registers a session under the given display name.
func (c Container) Insert(name string, s Session) {
	c[name] = s
}

// List returns all display names in sorted order.
func (c Container) List() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildContainer turns the discovery multimap into a catalog with unique
// display names. Collision groups are relabeled by Deduplicate; no candidate
// is ever dropped. With displayFullPath the full path becomes the visible
// name instead.
func BuildContainer(groups map[string][]Session, displayFullPath bool) Container {
	container := make(Container)

	for _, group := range groups {
		if len(group) > 1 {
			group = Deduplicate(group)
		}
		for _, s := range group {
			name := s.Name
			if displayFullPath && s.Path != "" {
				name = s.Path
			}
			container.Insert(name, s)
		}
	}

	return container
}
