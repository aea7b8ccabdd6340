package place

import (
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
)

// placeDTO is the stored shape of a place.
type placeDTO struct {
	Place    string    `bson:"place"`
	Type     string    `bson:"type"`
	Checkins int       `bson:"checkins"`
	Location geo.Point `bson:"location"`
}

func toDTO(p *domplace.Place) placeDTO {
	return placeDTO{
		Place:    p.Name(),
		Type:     p.Type(),
		Checkins: p.Checkins(),
		Location: p.Location(),
	}
}

func (d *placeDTO) toDomain() domplace.Place {
	return domplace.Reconstruct(d.Place, d.Type, d.Checkins, d.Location)
}
