package census

import (
	"errors"
	"fmt"
	"strings"
)

// FilterTypeAge tags filters describing age brackets.
const FilterTypeAge = "age"

// FieldInfix joins a metadata index and a category code into a region field name.
const FieldInfix = "_with_ann_"

// Stored field names of census filters and regions.
const (
	FieldType      = "type"
	FieldGender    = "gender"
	FieldMin       = "min"
	FieldMax       = "max"
	FieldGEOID     = "GEOID"
	FieldLocation  = "location"
	FieldGeometry  = "geometry"
	FieldMetaIndex = "meta_index"
)

// Subtypes of census estimates.
const (
	SubtypeEstimate      = "Estimate"
	SubtypeMarginOfError = "Margin of Error"
)

// Genders recorded on age filters.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Bounds is the configured age interval used for open or unknown ranges.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds covers every realistic age.
var DefaultBounds = Bounds{Min: 0, Max: 130}

// Filter describes one census field (immutable value object).
type Filter struct {
	kind        string
	category    string
	subtype     string
	gender      string
	min         int
	max         int
	metaIndex   string
	description string
}

// NewAgeFilter validates and creates an age Filter.
func NewAgeFilter(category, subtype, gender string, minAge, maxAge int, metaIndex, description string) (Filter, error) {
	if category == "" {
		return Filter{}, errors.New("category is required")
	}
	if metaIndex == "" {
		return Filter{}, errors.New("meta index is required")
	}
	if minAge > maxAge {
		return Filter{}, fmt.Errorf("min age %d exceeds max age %d", minAge, maxAge)
	}
	return Filter{
		kind:        FilterTypeAge,
		category:    category,
		subtype:     subtype,
		gender:      gender,
		min:         minAge,
		max:         maxAge,
		metaIndex:   metaIndex,
		description: description,
	}, nil
}

// Reconstruct creates a Filter without validation (storage hydration).
func Reconstruct(kind, category, subtype, gender string, minAge, maxAge int, metaIndex, description string) Filter {
	return Filter{
		kind:        kind,
		category:    category,
		subtype:     subtype,
		gender:      gender,
		min:         minAge,
		max:         maxAge,
		metaIndex:   metaIndex,
		description: description,
	}
}

// Type returns the filter type tag.
func (f Filter) Type() string { return f.kind }

// Category returns the category code.
func (f Filter) Category() string { return f.category }

// Subtype returns Estimate or Margin of Error.
func (f Filter) Subtype() string { return f.subtype }

// Gender returns Male or Female.
func (f Filter) Gender() string { return f.gender }

// Min returns the inclusive lower age.
func (f Filter) Min() int { return f.min }

// Max returns the inclusive upper age.
func (f Filter) Max() int { return f.max }

// MetaIndex returns the metadata table prefix.
func (f Filter) MetaIndex() string { return f.metaIndex }

// Description returns the raw metadata description.
func (f Filter) Description() string { return f.description }

// FieldName returns the region field this filter describes.
func (f Filter) FieldName() string { return FieldName(f.metaIndex, f.category) }

// FieldName joins a metadata index and a category code.
func FieldName(metaIndex, category string) string {
	return metaIndex + FieldInfix + category
}

// SplitFieldName splits a region field name into metadata index and category code.
func SplitFieldName(name string) (metaIndex, category string, ok bool) {
	return strings.Cut(name, FieldInfix)
}

// Region is a census block record with dynamic per-category fields.
type Region map[string]any

// Geometry is a region polygon keyed by GEOID.
type Geometry map[string]any

// Result is the outcome of an age lookup.
type Result struct {
	Categories []Filter
	Fields     []string
	Regions    []Region
}
