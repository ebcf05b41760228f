package util

import (
	"slices"
	"testing"
)

func TestNaturalCompareOrdersNumbersByValue(t *testing.T) {
	names := []string{"Watchlist 10", "Watchlist 2", "Watchlist 1"}
	slices.SortFunc(names, NaturalCompare)

	expected := []string{"Watchlist 1", "Watchlist 2", "Watchlist 10"}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("position %d: got %q, want %q", i, name, expected[i])
		}
	}
}

func TestNaturalCompareIsCaseInsensitive(t *testing.T) {
	if NaturalCompare("action", "Action") != 0 {
		t.Error("expected case-insensitive comparison to treat action/Action as equal")
	}
}

func TestNaturalSortLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Sci-Fi 2", "Sci-Fi 10", true},
		{"Sci-Fi 10", "Sci-Fi 2", false},
		{"Horror", "Horror Picks", true},
		{"a1b", "a1b", false},
	}
	for _, tc := range cases {
		if got := NaturalSortLess(tc.a, tc.b); got != tc.want {
			t.Errorf("NaturalSortLess(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
