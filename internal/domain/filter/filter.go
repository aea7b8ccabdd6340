package filter

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// MaxGroups is the maximum number of AND-ed groups in one expression.
const MaxGroups = 16

// Kind tags the variant held by a Condition.
type Kind int

const (
	// KindTextMatch is a case-insensitive regular expression match.
	KindTextMatch Kind = iota + 1
	// KindGeoNear restricts a point field to a radius around a position.
	KindGeoNear
	// KindRange is a numeric range.
	KindRange
	// KindEquals is an exact value match.
	KindEquals
)

func (k Kind) String() string {
	switch k {
	case KindTextMatch:
		return "text_match"
	case KindGeoNear:
		return "geo_near"
	case KindRange:
		return "range"
	case KindEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Expression is a conjunction of groups. Every group must match.
type Expression struct {
	groups []Group
}

// NewExpression validates and creates an Expression.
func NewExpression(groups ...Group) (Expression, error) {
	if len(groups) > MaxGroups {
		return Expression{}, fmt.Errorf("too many filter groups (max %d)", MaxGroups)
	}
	for i, g := range groups {
		if len(g.conds) == 0 {
			return Expression{}, fmt.Errorf("filter group %d is empty", i)
		}
	}
	return Expression{groups: groups}, nil
}

// Groups returns the AND-ed groups.
func (e Expression) Groups() []Group { return e.groups }

// IsEmpty reports whether the expression matches everything.
func (e Expression) IsEmpty() bool { return len(e.groups) == 0 }

// Group is a disjunction of conditions. At least one must match.
type Group struct {
	conds []Condition
}

// AnyOf validates and creates a Group.
func AnyOf(conds ...Condition) (Group, error) {
	if len(conds) == 0 {
		return Group{}, errors.New("at least one condition is required")
	}
	return Group{conds: conds}, nil
}

// Only wraps a single condition in a Group.
func Only(c Condition) Group { return Group{conds: []Condition{c}} }

// Conditions returns the OR-ed conditions.
func (g Group) Conditions() []Condition { return g.conds }

// IsSingle reports whether the group holds exactly one condition.
func (g Group) IsSingle() bool { return len(g.conds) == 1 }

// Condition is a single filter clause on one field.
type Condition struct {
	key       string
	kind      Kind
	pattern   string
	near      *Near
	rangeExpr *Range
	value     any
}

// NewTextMatch creates a case-insensitive regular expression condition.
func NewTextMatch(key, pattern string) (Condition, error) {
	if key == "" {
		return Condition{}, errors.New("filter key is required")
	}
	if pattern == "" {
		return Condition{}, fmt.Errorf("pattern is required for key %q", key)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return Condition{}, fmt.Errorf("invalid pattern for key %q: %w", key, err)
	}
	return Condition{key: key, kind: KindTextMatch, pattern: pattern}, nil
}

// NewGeoNear creates a proximity condition. maxDistance is in meters.
func NewGeoNear(key string, center geo.Point, maxDistance int) (Condition, error) {
	if key == "" {
		return Condition{}, errors.New("filter key is required")
	}
	if maxDistance < 0 {
		return Condition{}, fmt.Errorf("max distance must be >= 0, got %d", maxDistance)
	}
	if !geo.ValidateCoordinates(center.Lat(), center.Lon()) {
		return Condition{}, fmt.Errorf("invalid center for key %q", key)
	}
	return Condition{key: key, kind: KindGeoNear, near: &Near{center: center, maxDistance: maxDistance}}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, errors.New("filter key is required")
	}
	return Condition{key: key, kind: KindRange, rangeExpr: &r}, nil
}

// NewEquals creates an exact match condition.
func NewEquals(key string, value any) (Condition, error) {
	if key == "" {
		return Condition{}, errors.New("filter key is required")
	}
	if value == nil {
		return Condition{}, fmt.Errorf("value is required for key %q", key)
	}
	return Condition{key: key, kind: KindEquals, value: value}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Kind returns the condition variant.
func (c Condition) Kind() Kind { return c.kind }

// Pattern returns the regular expression of a text match.
func (c Condition) Pattern() string { return c.pattern }

// Near returns the proximity parameters of a geo condition.
func (c Condition) Near() *Near { return c.near }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Value returns the value of an equality condition.
func (c Condition) Value() any { return c.value }

// Near is a point plus a radius in meters.
type Near struct {
	center      geo.Point
	maxDistance int
}

// Center returns the reference point.
func (n Near) Center() geo.Point { return n.center }

// MaxDistance returns the radius in meters.
func (n Near) MaxDistance() int { return n.maxDistance }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, errors.New("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, errors.New("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, errors.New("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// AtLeast returns a Range with an inclusive lower bound.
func AtLeast(v float64) Range { return Range{gte: &v} }

// AtMost returns a Range with an inclusive upper bound.
func AtMost(v float64) Range { return Range{lte: &v} }

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
