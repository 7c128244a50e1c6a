package matcher

import (
	"strings"
	"time"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// Item is one ranked match: the label shown in the list and the index the
// label was seeded with.
type Item struct {
	Label string
	Index int
}

// Snapshot is an immutable view of the matcher state after a tick.
type Snapshot struct {
	Total   int
	Matched int
	Items   []Item
}

// Matcher ranks a fixed set of labels against an incrementally edited
// query. It is seeded once; every query change is recorded by Reparse and
// applied by the next Tick, so the owner never observes partial state.
type Matcher struct {
	labels []string

	query   string
	dirty   bool
	appends bool

	matched []Item
}

type itemSource []Item

func (s itemSource) String(i int) string { return s[i].Label }
func (s itemSource) Len() int            { return len(s) }

// New seeds the matcher with every catalog label. The initial snapshot
// matches everything in seed order.
func New(labels []string) *Matcher {
	m := &Matcher{labels: labels}
	m.matched = m.seedItems()
	return m
}

func (m *Matcher) seedItems() []Item {
	items := make([]Item, len(m.labels))
	for i, label := range m.labels {
		items[i] = Item{Label: label, Index: i}
	}
	return items
}

// Reparse records a new query. When the new query extends the previous one
// the next rescore only considers the current matches instead of the whole
// catalog.
func (m *Matcher) Reparse(query string) {
	if query == m.query {
		return
	}
	m.appends = m.query != "" && strings.HasPrefix(query, m.query) && !m.dirty
	m.query = query
	m.dirty = true
}

// Tick advances pending scoring work. One catalog is scored well inside any
// realistic frame budget, so the budget only documents the contract: Tick
// never blocks the render loop indefinitely and is a no-op when clean.
func (m *Matcher) Tick(budget time.Duration) {
	_ = budget
	if !m.dirty {
		return
	}
	m.matched = m.score()
	m.dirty = false
}

// Snapshot returns the current counts and ranked matches.
func (m *Matcher) Snapshot() Snapshot {
	items := make([]Item, len(m.matched))
	copy(items, m.matched)
	return Snapshot{
		Total:   len(m.labels),
		Matched: len(m.matched),
		Items:   items,
	}
}

func (m *Matcher) score() []Item {
	if m.query == "" {
		return m.seedItems()
	}

	pool := m.seedItems()
	if m.appends {
		pool = m.matched
	}

	caseSensitive := strings.ContainsFunc(m.query, unicode.IsUpper)

	matches := fuzzy.FindFrom(m.query, itemSource(pool))
	ranked := make([]Item, 0, len(matches))
	for _, match := range matches {
		item := pool[match.Index]
		if caseSensitive && !isSubsequence(m.query, item.Label) {
			continue
		}
		ranked = append(ranked, item)
	}
	return ranked
}

// isSubsequence reports whether query occurs in label as a case-sensitive
// subsequence.
func isSubsequence(query, label string) bool {
	next := []rune(label)
	for _, q := range query {
		found := false
		for len(next) > 0 {
			r := next[0]
			next = next[1:]
			if r == q {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
