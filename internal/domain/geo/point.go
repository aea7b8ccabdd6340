package geo

import "fmt"

// PointType is the GeoJSON type tag for a single position.
const PointType = "Point"

// Point is a GeoJSON point. Coordinates are stored longitude first.
type Point struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// NewPoint validates latitude/longitude (degrees) and builds a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if !ValidateCoordinates(lat, lon) {
		return Point{}, fmt.Errorf("coordinates out of range: lat=%v lon=%v", lat, lon)
	}
	return Point{Type: PointType, Coordinates: [2]float64{lon, lat}}, nil
}

// Lat returns the latitude.
func (p Point) Lat() float64 { return p.Coordinates[1] }

// Lon returns the longitude.
func (p Point) Lon() float64 { return p.Coordinates[0] }

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
