package collation

import "testing"

func TestSortStableIgnoresCase(t *testing.T) {
	names := []string{"poma", "Albercoc", "égalité", "Carbassa"}
	SortStable(New("ca"), names, func(s string) string { return s })

	want := []string{"Albercoc", "Carbassa", "égalité", "poma"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("position %d: expected %q, got %q (all: %v)", i, want[i], names[i], names)
		}
	}
}

func TestNewFallsBackOnBadLocale(t *testing.T) {
	s := New("not a locale!!")
	if s.Compare("a", "B") >= 0 {
		t.Fatal("expected a before B with the root collation")
	}
}
