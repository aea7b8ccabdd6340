package mongo

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kailas-cloud/geofeed/internal/db"
)

// toDocument converts a decoded record into plain Go values.
func toDocument(m primitive.M) db.Document {
	out := make(db.Document, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// normalize replaces driver types with JSON-friendly Go values:
// identifiers become hex strings, timestamps become time.Time,
// embedded documents become maps and arrays become slices.
func normalize(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Timestamp:
		return primitive.DateTime(int64(t.T) * 1000).Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case primitive.Regex:
		return t.String()
	case primitive.Binary:
		return t.Data
	case primitive.Null, primitive.Undefined:
		return nil
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m
	case primitive.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	default:
		return v
	}
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, e := range in {
		out[i] = normalize(e)
	}
	return out
}
