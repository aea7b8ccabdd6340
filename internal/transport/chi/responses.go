package chi

import (
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

type pointResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type placeResponse struct {
	Place    string        `json:"place"`
	Type     string        `json:"type"`
	Checkins int           `json:"checkins"`
	Location pointResponse `json:"location"`
}

type tweetResponse struct {
	ID        string        `json:"_id,omitempty"`
	Username  string        `json:"username"`
	Tweet     string        `json:"tweet"`
	Datetime  string        `json:"datetime"`
	Location  pointResponse `json:"location"`
	Sentiment int           `json:"sentiment"`
}

type categoryResponse struct {
	Type        string `json:"type"`
	Category    string `json:"category"`
	Subtype     string `json:"subtype"`
	Gender      string `json:"gender"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	MetaIndex   string `json:"meta_index"`
	Description string `json:"description"`
}

type censusResponse struct {
	Categories []categoryResponse `json:"categories"`
	Filter     []string           `json:"filter"`
	Regions    []map[string]any   `json:"regions"`
}

type typesResponse struct {
	AllTypes []string `json:"all_types"`
}

type namesResponse struct {
	AllNames []string `json:"all_names"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func pointToResponse(p geo.Point) pointResponse {
	return pointResponse{Type: geo.PointType, Coordinates: p.Coordinates}
}

func placeToResponse(p *domplace.Place) placeResponse {
	return placeResponse{
		Place:    p.Name(),
		Type:     p.Type(),
		Checkins: p.Checkins(),
		Location: pointToResponse(p.Location()),
	}
}

func tweetToResponse(t *domtweet.Tweet) tweetResponse {
	return tweetResponse{
		ID:        t.ID(),
		Username:  t.Username(),
		Tweet:     t.Text(),
		Datetime:  formatTime(t.PostedAt()),
		Location:  pointToResponse(t.Location()),
		Sentiment: int(t.Sentiment()),
	}
}

func categoryToResponse(f *domcensus.Filter) categoryResponse {
	return categoryResponse{
		Type:        f.Type(),
		Category:    f.Category(),
		Subtype:     f.Subtype(),
		Gender:      f.Gender(),
		Min:         f.Min(),
		Max:         f.Max(),
		MetaIndex:   f.MetaIndex(),
		Description: f.Description(),
	}
}

func censusToResponse(res *domcensus.Result) censusResponse {
	out := censusResponse{
		Categories: make([]categoryResponse, 0, len(res.Categories)),
		Filter:     res.Fields,
		Regions:    make([]map[string]any, 0, len(res.Regions)),
	}
	if out.Filter == nil {
		out.Filter = []string{}
	}
	for i := range res.Categories {
		out.Categories = append(out.Categories, categoryToResponse(&res.Categories[i]))
	}
	for _, r := range res.Regions {
		out.Regions = append(out.Regions, plainDocument(r))
	}
	return out
}
