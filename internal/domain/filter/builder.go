package filter

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// TermSeparator splits multi-value text parameters.
const TermSeparator = ","

// DefaultMaxDistance is the radius in meters used when none is supplied.
const DefaultMaxDistance = 100

// ContainsPattern builds a loose substring pattern for term.
// Whitespace runs match one or more whitespace characters; every other
// character matches literally.
func ContainsPattern(term string) string {
	return "^.*?" + normalizeTerm(term) + ".*?$"
}

// ExactPattern builds a full-match pattern for term.
func ExactPattern(term string) string {
	return "^" + regexp.QuoteMeta(strings.TrimSpace(term)) + "$"
}

func normalizeTerm(term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

// SplitTerms splits a comma separated parameter into terms.
// Empty terms are kept: an empty term matches every value.
func SplitTerms(raw string) []string {
	return strings.Split(raw, TermSeparator)
}

// Builder accumulates AND-ed groups from optional request parameters.
// The first error sticks and is returned by Build.
type Builder struct {
	groups []Group
	err    error
}

// NewBuilder starts an empty expression.
func NewBuilder() *Builder {
	return &Builder{}
}

// ContainsAny adds a group matching key against any comma separated term of raw.
// An empty raw value adds nothing.
func (b *Builder) ContainsAny(key, raw string) *Builder {
	if b.err != nil || raw == "" {
		return b
	}
	terms := SplitTerms(raw)
	conds := make([]Condition, 0, len(terms))
	for _, term := range terms {
		c, err := NewTextMatch(key, ContainsPattern(term))
		if err != nil {
			b.err = err
			return b
		}
		conds = append(conds, c)
	}
	return b.add(AnyOf(conds...))
}

// Contains adds a substring match of the whole raw value.
func (b *Builder) Contains(key, raw string) *Builder {
	if b.err != nil || raw == "" {
		return b
	}
	c, err := NewTextMatch(key, ContainsPattern(raw))
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// Exact adds a full match of raw, ignoring case.
func (b *Builder) Exact(key, raw string) *Builder {
	if b.err != nil || raw == "" {
		return b
	}
	c, err := NewTextMatch(key, ExactPattern(raw))
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// Near adds a proximity group. A nil center adds nothing.
func (b *Builder) Near(key string, center *geo.Point, maxDistance int) *Builder {
	if b.err != nil || center == nil {
		return b
	}
	c, err := NewGeoNear(key, *center, maxDistance)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// Equals adds an exact value match.
func (b *Builder) Equals(key string, value any) *Builder {
	if b.err != nil {
		return b
	}
	c, err := NewEquals(key, value)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// In adds a group matching key against any of values. Empty values add nothing.
func (b *Builder) In(key string, values []string) *Builder {
	if b.err != nil || len(values) == 0 {
		return b
	}
	conds := make([]Condition, 0, len(values))
	for _, v := range values {
		c, err := NewEquals(key, v)
		if err != nil {
			b.err = err
			return b
		}
		conds = append(conds, c)
	}
	return b.add(AnyOf(conds...))
}

// Range adds a numeric range on key.
func (b *Builder) Range(key string, r Range) *Builder {
	if b.err != nil {
		return b
	}
	c, err := NewRange(key, r)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// Match adds a case-insensitive match of a prebuilt pattern.
func (b *Builder) Match(key, pattern string) *Builder {
	if b.err != nil {
		return b
	}
	c, err := NewTextMatch(key, pattern)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(Only(c), nil)
}

// Build validates and returns the expression.
func (b *Builder) Build() (Expression, error) {
	if b.err != nil {
		return Expression{}, b.err
	}
	return NewExpression(b.groups...)
}

func (b *Builder) add(g Group, err error) *Builder {
	if err != nil {
		b.err = err
		return b
	}
	b.groups = append(b.groups, g)
	return b
}
