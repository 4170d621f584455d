package collation

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter orders display names for a locale, ignoring case. A Sorter is not
// safe for concurrent use; build one per request.
type Sorter struct {
	col *collate.Collator
}

// New builds a Sorter for the BCP 47 tag. Unknown tags fall back to the root collation.
func New(locale string) *Sorter {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.Und
	}
	return &Sorter{col: collate.New(tag, collate.IgnoreCase)}
}

// Compare returns -1, 0 or 1. Equal names under the collator are tie-broken bytewise.
func (s *Sorter) Compare(a, b string) int {
	if c := s.col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortStable sorts items by the name key, keeping input order for identical names.
func SortStable[T any](s *Sorter, items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return s.Compare(name(items[i]), name(items[j])) < 0
	})
}
