package chi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/geofeed/internal/domain"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// bindQuery binds one optional form parameter into dest, a pointer to a
// pointer. Missing and empty values leave dest untouched.
func bindQuery(q url.Values, name string, dest any) error {
	if q.Get(name) == "" {
		return nil
	}
	if err := runtime.BindQueryParameter("form", true, false, name, q, dest); err != nil {
		return domain.NewParameterError(name, "must be a valid number")
	}
	return nil
}

// GeoParams are the proximity parameters shared by list endpoints.
type GeoParams struct {
	Lat  *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lon  *float64 `form:"lon,omitempty" json:"lon,omitempty"`
	Dist *int     `form:"dist,omitempty" json:"dist,omitempty"`
}

func (p *GeoParams) bind(q url.Values) error {
	if err := bindQuery(q, "lat", &p.Lat); err != nil {
		return err
	}
	if err := bindQuery(q, "lon", &p.Lon); err != nil {
		return err
	}
	return bindQuery(q, "dist", &p.Dist)
}

// Near returns the reference point and radius. A partial coordinate pair
// disables proximity filtering.
func (p *GeoParams) Near() (*geo.Point, int, error) {
	dist := filter.DefaultMaxDistance
	if p.Dist != nil {
		dist = *p.Dist
	}
	if p.Lat == nil || p.Lon == nil {
		return nil, dist, nil
	}
	pt, err := geo.NewPoint(*p.Lat, *p.Lon)
	if err != nil {
		return nil, 0, domain.NewParameterError("lat/lon", err.Error())
	}
	return &pt, dist, nil
}

// ListPlacesParams are the parameters of GET /places.
type ListPlacesParams struct {
	Query *string `form:"query,omitempty" json:"query,omitempty"`
	Type  *string `form:"type,omitempty" json:"type,omitempty"`
	GeoParams
}

func bindListPlacesParams(r *http.Request) (ListPlacesParams, error) {
	var p ListPlacesParams
	q := r.URL.Query()
	if err := bindQuery(q, "query", &p.Query); err != nil {
		return p, err
	}
	if err := bindQuery(q, "type", &p.Type); err != nil {
		return p, err
	}
	err := p.GeoParams.bind(q)
	return p, err
}

// ListTweetsParams are the parameters of GET /tweets.
type ListTweetsParams struct {
	Username  *string `form:"username,omitempty" json:"username,omitempty"`
	Query     *string `form:"query,omitempty" json:"query,omitempty"`
	Sentiment *int    `form:"sentiment,omitempty" json:"sentiment,omitempty"`
	GeoParams
}

func bindListTweetsParams(r *http.Request) (ListTweetsParams, error) {
	var p ListTweetsParams
	q := r.URL.Query()
	if err := bindQuery(q, "username", &p.Username); err != nil {
		return p, err
	}
	if err := bindQuery(q, "query", &p.Query); err != nil {
		return p, err
	}
	if err := bindQuery(q, "sentiment", &p.Sentiment); err != nil {
		return p, err
	}
	err := p.GeoParams.bind(q)
	return p, err
}

// PatchTweetParams are the parameters of PATCH /tweets/{id}.
type PatchTweetParams struct {
	Username  *string  `form:"username,omitempty" json:"username,omitempty"`
	Tweet     *string  `form:"tweet,omitempty" json:"tweet,omitempty"`
	Lat       *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lon       *float64 `form:"lon,omitempty" json:"lon,omitempty"`
	Sentiment *int     `form:"sentiment,omitempty" json:"sentiment,omitempty"`
}

func bindPatchTweetParams(r *http.Request) (PatchTweetParams, error) {
	var p PatchTweetParams
	q := r.URL.Query()
	for _, b := range []struct {
		name string
		dest any
	}{
		{"username", &p.Username},
		{"tweet", &p.Tweet},
		{"lat", &p.Lat},
		{"lon", &p.Lon},
		{"sentiment", &p.Sentiment},
	} {
		if err := bindQuery(q, b.name, b.dest); err != nil {
			return p, err
		}
	}
	return p, nil
}

// CensusParams are the parameters of GET /census.
type CensusParams struct {
	AgeMin *int    `form:"agemin,omitempty" json:"agemin,omitempty"`
	AgeMax *int    `form:"agemax,omitempty" json:"agemax,omitempty"`
	Gender *string `form:"gender,omitempty" json:"gender,omitempty"`
	GeoParams
}

func bindCensusParams(r *http.Request) (CensusParams, error) {
	var p CensusParams
	q := r.URL.Query()
	if err := bindQuery(q, "agemin", &p.AgeMin); err != nil {
		return p, err
	}
	if err := bindQuery(q, "agemax", &p.AgeMax); err != nil {
		return p, err
	}
	if err := bindQuery(q, "gender", &p.Gender); err != nil {
		return p, err
	}
	err := p.GeoParams.bind(q)
	return p, err
}

// CensusGeometriesParams are the parameters of GET /census/geometries.
type CensusGeometriesParams struct {
	Geoid *string `form:"geoid,omitempty" json:"geoid,omitempty"`
}

// GEOIDs returns the non-empty comma separated identifiers.
func (p *CensusGeometriesParams) GEOIDs() []string {
	if p.Geoid == nil {
		return nil
	}
	var ids []string
	for _, id := range filter.SplitTerms(*p.Geoid) {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func bindCensusGeometriesParams(r *http.Request) (CensusGeometriesParams, error) {
	var p CensusGeometriesParams
	err := bindQuery(r.URL.Query(), "geoid", &p.Geoid)
	return p, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
