package census

import (
	"github.com/kailas-cloud/geofeed/internal/db"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
)

type filterDTO struct {
	Type        string `bson:"type"`
	Category    string `bson:"category"`
	Subtype     string `bson:"subtype"`
	Gender      string `bson:"gender"`
	Min         int    `bson:"min"`
	Max         int    `bson:"max"`
	MetaIndex   string `bson:"meta_index"`
	Description string `bson:"description"`
}

func toFilterDTO(f *domcensus.Filter) filterDTO {
	return filterDTO{
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

func (d *filterDTO) toDomain() domcensus.Filter {
	return domcensus.Reconstruct(d.Type, d.Category, d.Subtype, d.Gender, d.Min, d.Max, d.MetaIndex, d.Description)
}

func toRegions(docs []db.Document) []domcensus.Region {
	out := make([]domcensus.Region, 0, len(docs))
	for _, d := range docs {
		out = append(out, domcensus.Region(d))
	}
	return out
}

func toGeometries(docs []db.Document) []domcensus.Geometry {
	out := make([]domcensus.Geometry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domcensus.Geometry(d))
	}
	return out
}
