package patch

import (
	"fmt"

	"github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

// Patch is a partial tweet update. Nil fields are left unchanged.
type Patch struct {
	username  *string
	text      *string
	lat       *float64
	lon       *float64
	sentiment *tweet.Sentiment
}

// New validates and creates a Patch. An empty Patch is valid and changes nothing.
func New(username, text *string, lat, lon *float64, sentiment *int) (Patch, error) {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return Patch{}, fmt.Errorf("lat must be between -90 and 90, got %v", *lat)
	}
	if lon != nil && (*lon < -180 || *lon > 180) {
		return Patch{}, fmt.Errorf("lon must be between -180 and 180, got %v", *lon)
	}
	p := Patch{username: username, text: text, lat: lat, lon: lon}
	if sentiment != nil {
		s, err := tweet.ParseSentiment(*sentiment)
		if err != nil {
			return Patch{}, err
		}
		p.sentiment = &s
	}
	return p, nil
}

// Username returns the new author, or nil if unchanged.
func (p Patch) Username() *string { return p.username }

// Text returns the new content, or nil if unchanged.
func (p Patch) Text() *string { return p.text }

// Lat returns the new latitude, or nil if unchanged.
func (p Patch) Lat() *float64 { return p.lat }

// Lon returns the new longitude, or nil if unchanged.
func (p Patch) Lon() *float64 { return p.lon }

// Sentiment returns the new polarity, or nil if unchanged.
func (p Patch) Sentiment() *tweet.Sentiment { return p.sentiment }

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.username == nil && p.text == nil && p.lat == nil && p.lon == nil && p.sentiment == nil
}
