// Package term orders academic term labels.
//
// Academic terms are labelled "<year><A|B>" and work terms "WT<n>". Every
// label maps to an ordinal: year*10 for A, year*10+1 for B, and n*10+5 for
// WTn, so a work term sorts after both academic terms of the same year and
// before the next year ("1B" < "WT1" < "2A"). Multi-digit years compare
// numerically, so "10A" sorts after "2A".
//
// The order is fixed and does not follow any one sequence's chronology: in
// Co-op Sequence 1, WT2 falls between 2A and 2B in time but ranks after 2B.
package term

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	academicPattern = regexp.MustCompile(`^([1-9][0-9]*)([AB])$`)
	workPattern     = regexp.MustCompile(`^WT([1-9][0-9]*)$`)
)

// Rank returns the ordinal of label, or false if the label is not a term label.
func Rank(label string) (int, bool) {
	l := strings.ToUpper(strings.TrimSpace(label))

	if m := academicPattern.FindStringSubmatch(l); m != nil {
		year, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		rank := year * 10
		if m[2] == "B" {
			rank++
		}
		return rank, true
	}

	if m := workPattern.FindStringSubmatch(l); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		return n*10 + 5, true
	}

	return 0, false
}

// Valid reports whether label is an academic or work term label.
func Valid(label string) bool {
	_, ok := Rank(label)
	return ok
}

// Compare orders two labels, returning -1, 0 or +1. Labels that cannot be
// ranked fall back to plain string comparison.
func Compare(a, b string) int {
	ra, okA := Rank(a)
	rb, okB := Rank(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	return 0
}

// AtLeast reports whether term is at or beyond minimum. An empty minimum is
// always met.
func AtLeast(term, minimum string) bool {
	if strings.TrimSpace(minimum) == "" {
		return true
	}
	return Compare(minimum, term) <= 0
}
