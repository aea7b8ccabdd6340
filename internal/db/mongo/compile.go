package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/geofeed/internal/db"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// compileFilter translates an expression into a query document.
// Single-condition groups become top-level fields so that $near stays at the
// top level; OR groups and repeated keys go into $and.
func compileFilter(expr filter.Expression) bson.D {
	out := bson.D{}
	var and bson.A
	used := make(map[string]bool)

	for _, g := range expr.Groups() {
		if g.IsSingle() {
			c := g.Conditions()[0]
			if !used[c.Key()] {
				used[c.Key()] = true
				out = append(out, compileCondition(c))
				continue
			}
			and = append(and, bson.D{compileCondition(c)})
			continue
		}

		or := make(bson.A, 0, len(g.Conditions()))
		for _, c := range g.Conditions() {
			or = append(or, bson.D{compileCondition(c)})
		}
		and = append(and, bson.D{{Key: "$or", Value: or}})
	}

	if len(and) > 0 {
		out = append(out, bson.E{Key: "$and", Value: and})
	}
	return out
}

func compileCondition(c filter.Condition) bson.E {
	switch c.Kind() {
	case filter.KindTextMatch:
		return bson.E{Key: c.Key(), Value: primitive.Regex{Pattern: c.Pattern(), Options: "i"}}
	case filter.KindGeoNear:
		n := c.Near()
		p := n.Center()
		return bson.E{Key: c.Key(), Value: bson.D{
			{Key: "$near", Value: bson.D{
				{Key: "$geometry", Value: bson.D{
					{Key: "type", Value: geo.PointType},
					{Key: "coordinates", Value: bson.A{p.Lon(), p.Lat()}},
				}},
				{Key: "$maxDistance", Value: n.MaxDistance()},
			}},
		}}
	case filter.KindRange:
		return bson.E{Key: c.Key(), Value: compileRange(c.Range())}
	default:
		return bson.E{Key: c.Key(), Value: c.Value()}
	}
}

func compileRange(r *filter.Range) bson.D {
	d := bson.D{}
	if v := r.GT(); v != nil {
		d = append(d, bson.E{Key: "$gt", Value: *v})
	}
	if v := r.GTE(); v != nil {
		d = append(d, bson.E{Key: "$gte", Value: *v})
	}
	if v := r.LT(); v != nil {
		d = append(d, bson.E{Key: "$lt", Value: *v})
	}
	if v := r.LTE(); v != nil {
		d = append(d, bson.E{Key: "$lte", Value: *v})
	}
	return d
}

// compileProjection returns nil when every field including _id is wanted.
func compileProjection(q *db.Query) bson.D {
	if len(q.Fields) == 0 && q.IncludeID {
		return nil
	}
	p := make(bson.D, 0, len(q.Fields)+1)
	for _, f := range q.Fields {
		p = append(p, bson.E{Key: f, Value: 1})
	}
	if !q.IncludeID {
		p = append(p, bson.E{Key: "_id", Value: 0})
	}
	return p
}

func compileSort(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	s := make(bson.D, 0, len(fields))
	for _, f := range fields {
		s = append(s, bson.E{Key: f, Value: 1})
	}
	return s
}
