package filters

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips combining marks and case so "Preparació" and "preparacio" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// ContainsFolded reports whether needle occurs in any haystack, ignoring accents and case.
func ContainsFolded(needle string, haystacks ...string) bool {
	folded := Fold(needle)
	if folded == "" {
		return true
	}
	return containsFolded(folded, haystacks...)
}

func containsFolded(folded string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(Fold(h), folded) {
			return true
		}
	}
	return false
}
