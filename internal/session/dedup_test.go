package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicateUsesGroupMaxDepth(t *testing.T) {
	group := []Session{
		New("test", "/search/path/to/proj1/test", KindPath),
		New("test", "/search/path/to/proj2/test", KindPath),
		New("test", "/other/path/to/projects/proj2/test", KindPath),
	}

	deduplicated := Deduplicate(group)

	require.Len(t, deduplicated, 3)
	assert.Equal(t, "projects/proj2/test", deduplicated[0].Name)
	assert.Equal(t, "to/proj2/test", deduplicated[1].Name)
	assert.Equal(t, "to/proj1/test", deduplicated[2].Name)
}

func TestDeduplicateDistinctParents(t *testing.T) {
	group := []Session{
		New("proj", "/a/b/proj", KindRepository),
		New("proj", "/a/c/proj", KindRepository),
		New("proj", "/x/y/z/proj", KindRepository),
	}

	deduplicated := Deduplicate(group)

	names := make(map[string]bool)
	for _, s := range deduplicated {
		names[s.Name] = true
	}
	assert.Equal(t, map[string]bool{"b/proj": true, "c/proj": true, "z/proj": true}, names)

	// All labels in a group carry the same number of segments.
	for _, s := range deduplicated {
		assert.Equal(t, 2, len(strings.Split(s.Name, "/")))
	}
}

func TestDeduplicateYieldsUniqueSuffixLabels(t *testing.T) {
	group := []Session{
		New("app", "/home/alice/work/app", KindRepository),
		New("app", "/home/alice/play/app", KindRepository),
		New("app", "/srv/mirrors/work/app", KindRepository),
		New("app", "/tmp/app", KindRepository),
	}

	deduplicated := Deduplicate(group)
	require.Len(t, deduplicated, len(group))

	seen := make(map[string]bool)
	byPath := make(map[string]string)
	for _, s := range deduplicated {
		assert.False(t, seen[s.Name], "label %q not unique", s.Name)
		seen[s.Name] = true
		byPath[s.Path] = s.Name
	}

	// Every label is a legal '/'-joined suffix of its own path.
	for path, name := range byPath {
		assert.True(t, strings.HasSuffix(path, "/"+name) || path == "/"+name,
			"label %q is not a suffix of %q", name, path)
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	group := []Session{
		New("test", "/search/path/to/proj1/test", KindPath),
		New("test", "/search/path/to/proj2/test", KindPath),
		New("test", "/other/path/to/projects/proj2/test", KindPath),
	}

	once := Deduplicate(group)
	twice := Deduplicate(once)

	require.Len(t, twice, len(once))
	onceNames := make(map[string]string)
	for _, s := range once {
		onceNames[s.Path] = s.Name
	}
	for _, s := range twice {
		assert.Equal(t, onceNames[s.Path], s.Name)
	}
}

func TestDeduplicateIdenticalPathsFallBackToOrdinals(t *testing.T) {
	group := []Session{
		New("dup", "/srv/dup", KindPath),
		New("dup", "/srv/dup", KindPath),
	}

	deduplicated := Deduplicate(group)

	require.Len(t, deduplicated, 2)
	names := map[string]bool{deduplicated[0].Name: true, deduplicated[1].Name: true}
	assert.Equal(t, map[string]bool{"srv/dup": true, "srv/dup #2": true}, names)
}

func TestDeduplicateSingleCandidateKeepsShortSuffix(t *testing.T) {
	deduplicated := Deduplicate([]Session{New("solo", "/deep/long/tree/solo", KindRepository)})

	require.Len(t, deduplicated, 1)
	assert.Equal(t, "tree/solo", deduplicated[0].Name) // depth never probed past 1
}
