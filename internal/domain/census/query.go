package census

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/geofeed/internal/domain"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// GenderAny matches both recorded genders.
const GenderAny = "any"

// AgeQuery selects age filters by bracket and gender.
type AgeQuery struct {
	Min    int
	Max    int
	Gender string // any, male or female (lower case)
}

// NewAgeQuery resolves optional request values against b.
// active is false when no value was supplied; the lookup is then skipped.
func NewAgeQuery(minAge, maxAge *int, gender *string, b Bounds) (q AgeQuery, active bool, err error) {
	q = AgeQuery{Min: b.Min, Max: b.Max, Gender: GenderAny}
	if minAge != nil {
		q.Min = *minAge
		active = true
	}
	if maxAge != nil {
		q.Max = *maxAge
		active = true
	}
	if gender != nil {
		g := strings.ToLower(strings.TrimSpace(*gender))
		switch g {
		case GenderAny, "male", "female":
		default:
			return AgeQuery{}, false, domain.NewParameterError("gender", "must be one of any, male, female")
		}
		q.Gender = g
		active = true
	}
	return q, active, nil
}

// GenderPattern returns the case-insensitive pattern matched against the
// stored gender. It is unanchored, so "male" also matches "Female".
func (q AgeQuery) GenderPattern() string {
	if q.Gender == GenderAny || q.Gender == "" {
		return "female|male"
	}
	return regexp.QuoteMeta(q.Gender)
}

// Query holds all census lookup parameters.
type Query struct {
	Age      *AgeQuery
	Near     *geo.Point
	Distance int // meters
}
