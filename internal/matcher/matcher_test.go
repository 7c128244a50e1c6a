package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tick(m *Matcher) Snapshot {
	m.Tick(10 * time.Millisecond)
	return m.Snapshot()
}

func labels(s Snapshot) []string {
	out := make([]string, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.Label
	}
	return out
}

func TestSeededSnapshotMatchesEverything(t *testing.T) {
	m := New([]string{"alpha", "beta", "gamma"})

	s := tick(m)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 3, s.Matched)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, labels(s))
}

func TestFilterThenClearRestoresSeedOrder(t *testing.T) {
	seed := []string{"work/proj", "play/proj", "notes"}
	m := New(seed)

	m.Reparse("wo")
	s := tick(m)
	assert.Equal(t, []string{"work/proj"}, labels(s))

	m.Reparse("")
	s = tick(m)
	assert.Equal(t, seed, labels(s))
	assert.Equal(t, s.Total, s.Matched)
}

func TestSmartCase(t *testing.T) {
	m := New([]string{"readme", "README", "ReadMe"})

	m.Reparse("readme")
	s := tick(m)
	assert.Equal(t, 3, s.Matched, "lowercase query matches case-insensitively")

	m.Reparse("README")
	s = tick(m)
	assert.Equal(t, []string{"README"}, labels(s))
}

func TestAppendRescoresWithinPreviousMatches(t *testing.T) {
	m := New([]string{"work/proj", "play/proj", "worship"})

	m.Reparse("wo")
	tick(m)
	m.Reparse("wor")
	s := tick(m)

	full := New([]string{"work/proj", "play/proj", "worship"})
	full.Reparse("wor")
	want := tick(full)

	assert.ElementsMatch(t, labels(want), labels(s))
}

func TestNoMatches(t *testing.T) {
	m := New([]string{"alpha", "beta"})

	m.Reparse("zzz")
	s := tick(m)
	assert.Equal(t, 0, s.Matched)
	assert.Equal(t, 2, s.Total)
	assert.Empty(t, s.Items)
}

func TestTickWithoutReparseIsStable(t *testing.T) {
	m := New([]string{"one", "two"})

	first := tick(m)
	second := tick(m)
	assert.Equal(t, first, second)
}

func TestItemsKeepSeedIndexes(t *testing.T) {
	m := New([]string{"zebra", "apple"})

	m.Reparse("app")
	s := tick(m)
	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].Index)
}

func TestIsSubsequence(t *testing.T) {
	assert.True(t, isSubsequence("wp", "work/proj"))
	assert.True(t, isSubsequence("", "anything"))
	assert.False(t, isSubsequence("W", "work"))
	assert.False(t, isSubsequence("xyz", "xy"))
}
