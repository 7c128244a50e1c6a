package session

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Deduplicate relabels a group of sessions that share a basename so each
// gets a unique path-suffix label. The probe walks each candidate's path
// backwards until the component at the current depth no longer matches any
// still-remaining candidate; the deepest probe seen wins, and every label
// in the group is rebuilt from that shared depth so the group renders with
// a uniform number of path segments.
func Deduplicate(group []Session) []Session {
	stack := make([]Session, len(group))
	copy(stack, group)

	deduplicated := make([]Session, 0, len(group))
	maxDepth := 1

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		depth := 1
		for {
			component, ok := componentFromEnd(current.Path, depth)
			if !ok {
				break
			}
			matched := false
			for _, other := range stack {
				if c, ok := componentFromEnd(other.Path, depth); ok && c == component {
					matched = true
					break
				}
			}
			if !matched {
				break
			}
			depth++
		}

		deduplicated = append(deduplicated, current)
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	for i := range deduplicated {
		deduplicated[i].Name = suffixLabel(deduplicated[i].Path, maxDepth+1)
	}

	// Colliding candidates can share every component down to the root, in
	// which case the suffix labels are still equal. Fall back to an ordinal
	// suffix instead of silently overwriting entries.
	seen := make(map[string]int, len(deduplicated))
	for i := range deduplicated {
		name := deduplicated[i].Name
		seen[name]++
		if seen[name] > 1 {
			deduplicated[i].Name = fmt.Sprintf("%s #%d", name, seen[name])
		}
	}

	return deduplicated
}

// componentFromEnd returns the path component n positions from the end,
// where position 0 is the basename.
func componentFromEnd(path string, n int) (string, bool) {
	components := splitComponents(path)
	if n >= len(components) {
		return "", false
	}
	return components[len(components)-1-n], true
}

// suffixLabel joins the last n path components with '/'. Paths shorter than
// n yield all the components they have.
func suffixLabel(path string, n int) string {
	components := splitComponents(path)
	if n > len(components) {
		n = len(components)
	}
	return strings.Join(components[len(components)-n:], "/")
}

func splitComponents(path string) []string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	components := parts[:0]
	for _, p := range parts {
		if p != "" {
			components = append(components, p)
		}
	}
	return components
}
