package census

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	underRe   = regexp.MustCompile(`^Under (\d+) years?$`)
	betweenRe = regexp.MustCompile(`^(\d+) (?:to|and) (\d+) years$`)
	overRe    = regexp.MustCompile(`^(\d+) years and over$`)
	singleRe  = regexp.MustCompile(`^(\d+) years?$`)
)

// ParseAgeRange extracts the inclusive age interval of a bracket label
// such as "Under 5 years", "22 to 24 years", "20 years" or "85 years and over".
// Labels without a recognizable bracket cover the whole of b.
func ParseAgeRange(label string, b Bounds) (minAge, maxAge int) {
	label = strings.TrimSpace(label)

	if m := underRe.FindStringSubmatch(label); m != nil {
		return clamp(b.Min, atoi(m[1])-1, b)
	}
	if m := betweenRe.FindStringSubmatch(label); m != nil {
		return clamp(atoi(m[1]), atoi(m[2]), b)
	}
	if m := overRe.FindStringSubmatch(label); m != nil {
		return clamp(atoi(m[1]), b.Max, b)
	}
	if m := singleRe.FindStringSubmatch(label); m != nil {
		n := atoi(m[1])
		return clamp(n, n, b)
	}
	return b.Min, b.Max
}

func clamp(lo, hi int, b Bounds) (int, int) {
	lo = max(lo, b.Min)
	hi = min(hi, b.Max)
	if lo > hi {
		return b.Min, b.Max
	}
	return lo, hi
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s) // digits only, guaranteed by the patterns
	return n
}

// ParseAgeDescription turns a metadata row into an age Filter.
// Only descriptions shaped like "<Estimate|Margin of Error>; <Male|Female>: ..."
// qualify; ok is false for every other row.
func ParseAgeDescription(metaIndex, code, description string, b Bounds) (f Filter, ok bool) {
	subtype, rest, found := strings.Cut(description, "; ")
	if !found {
		return Filter{}, false
	}
	subtype = strings.TrimSpace(subtype)
	if subtype != SubtypeEstimate && subtype != SubtypeMarginOfError {
		return Filter{}, false
	}

	gender, label, found := strings.Cut(rest, ":")
	if !found {
		return Filter{}, false
	}
	gender = strings.TrimSpace(gender)
	if gender != GenderMale && gender != GenderFemale {
		return Filter{}, false
	}

	label = strings.TrimLeft(strings.TrimSpace(label), "- ")
	minAge, maxAge := ParseAgeRange(label, b)

	f, err := NewAgeFilter(code, subtype, gender, minAge, maxAge, metaIndex, description)
	if err != nil {
		return Filter{}, false
	}
	return f, true
}
