package place

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// Stored field names of a place.
const (
	FieldName     = "place"
	FieldType     = "type"
	FieldCheckins = "checkins"
	FieldLocation = "location"
)

// Place is a check-in venue (immutable value object).
type Place struct {
	name     string
	kind     string
	checkins int
	location geo.Point
}

// New validates and creates a Place.
func New(name, kind string, checkins int, location geo.Point) (Place, error) {
	if name == "" {
		return Place{}, errors.New("place name is required")
	}
	if checkins < 0 {
		return Place{}, fmt.Errorf("checkins must be >= 0, got %d", checkins)
	}
	if !geo.ValidateCoordinates(location.Lat(), location.Lon()) {
		return Place{}, fmt.Errorf("invalid location for place %q", name)
	}
	return Place{name: name, kind: kind, checkins: checkins, location: location}, nil
}

// Reconstruct creates a Place without validation (storage hydration).
func Reconstruct(name, kind string, checkins int, location geo.Point) Place {
	return Place{name: name, kind: kind, checkins: checkins, location: location}
}

// Name returns the venue name.
func (p Place) Name() string { return p.name }

// Type returns the free text venue category.
func (p Place) Type() string { return p.kind }

// Checkins returns the check-in count.
func (p Place) Checkins() int { return p.checkins }

// Location returns the venue position.
func (p Place) Location() geo.Point { return p.location }

// Query holds the optional place search parameters.
type Query struct {
	Names    string // comma separated, any matches
	Types    string // comma separated, any matches
	Near     *geo.Point
	Distance int // meters
}
