package util

import (
	"regexp"
	"strconv"
	"strings"
)

var segmenter = regexp.MustCompile(`(\d+|\D+)`)

type segment struct {
	text  string
	value int
	isNum bool
}

func segments(s string) []segment {
	parts := segmenter.FindAllString(s, -1)
	out := make([]segment, len(parts))
	for i, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			out[i] = segment{value: n, isNum: true}
		} else {
			out[i] = segment{text: strings.ToLower(p)}
		}
	}
	return out
}

// NaturalCompare orders strings the way a person reads them: embedded
// numbers compare by value, so "List 2" sorts before "List 10". Returns
// -1, 0 or 1.
func NaturalCompare(s1, s2 string) int {
	a, b := segments(s1), segments(s2)
	n := min(len(a), len(b))

	for i := 0; i < n; i++ {
		// A number sorts before any text at the same position.
		switch {
		case a[i].isNum && !b[i].isNum:
			return -1
		case !a[i].isNum && b[i].isNum:
			return 1
		case a[i].isNum:
			if a[i].value != b[i].value {
				if a[i].value < b[i].value {
					return -1
				}
				return 1
			}
		default:
			if a[i].text != b[i].text {
				return strings.Compare(a[i].text, b[i].text)
			}
		}
	}

	// Equal prefixes: the shorter string comes first.
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// NaturalSortLess reports whether s1 orders before s2.
func NaturalSortLess(s1, s2 string) bool {
	return NaturalCompare(s1, s2) < 0
}
