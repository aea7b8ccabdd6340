package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/twpayne/go-geom/encoding/geojson"

	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
)

// Census input naming and property keys.
const (
	metadataSuffix = "_metadata"
	propLat        = "INTPTLAT"
	propLon        = "INTPTLON"
)

// MetaIndex derives the metadata table prefix from a file name such as
// "ACS_13_5YR_B01001_metadata.csv".
func MetaIndex(path string) (string, bool) {
	base := filepath.Base(path)
	idx, _, ok := strings.Cut(base, metadataSuffix)
	if !ok || idx == "" {
		return "", false
	}
	return idx, true
}

// ParseMetadata reads "code,description" rows and returns the age filters
// among them. Rows that are not age brackets are ignored.
func ParseMetadata(r io.Reader, metaIndex string, b domcensus.Bounds) ([]domcensus.Filter, error) {
	var filters []domcensus.Filter
	seen := make(map[string]struct{})

	err := scanLines(context.Background(), r, false, func(_ int, line string) error {
		code, desc, ok := strings.Cut(line, ",")
		if !ok {
			return nil
		}
		code = unquote(code)
		if _, dup := seen[code]; dup {
			return nil
		}
		seen[code] = struct{}{}

		if f, ok := domcensus.ParseAgeDescription(metaIndex, code, unquote(desc), b); ok {
			filters = append(filters, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filters, nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// Feature is one decoded census block: its region record and its polygon.
type Feature struct {
	Region   domcensus.Region
	Geometry domcensus.Geometry
}

type featureCollection struct {
	Features []*geojson.Feature `json:"features"`
}

// ParseFeatures decodes a GeoJSON FeatureCollection of census blocks.
// Each region keeps the feature properties, a string GEOID and a point
// built from the internal point coordinates.
func ParseFeatures(r io.Reader) ([]Feature, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: decode feature collection: %w", ErrInvalidRow, err)
	}

	out := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		feat, err := convertFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out = append(out, feat)
	}
	return out, nil
}

func convertFeature(f *geojson.Feature) (Feature, error) {
	if f == nil {
		return Feature{}, invalidRow("null feature")
	}

	geoid, ok := stringValue(f.Properties[domcensus.FieldGEOID])
	if !ok {
		geoid = f.ID
	}
	if geoid == "" {
		return Feature{}, invalidRow("missing %s", domcensus.FieldGEOID)
	}

	lat, okLat := floatValue(f.Properties[propLat])
	lon, okLon := floatValue(f.Properties[propLon])
	if !okLat || !okLon {
		return Feature{}, invalidRow("block %s: missing %s/%s", geoid, propLat, propLon)
	}
	loc, err := geo.NewPoint(lat, lon)
	if err != nil {
		return Feature{}, fmt.Errorf("%w: block %s: %w", ErrInvalidRow, geoid, err)
	}

	region := make(domcensus.Region, len(f.Properties)+2)
	for k, v := range f.Properties {
		region[k] = v
	}
	region[domcensus.FieldGEOID] = geoid
	region[domcensus.FieldLocation] = loc

	feat := Feature{Region: region}
	if f.Geometry != nil {
		g, err := encodeGeometry(f)
		if err != nil {
			return Feature{}, fmt.Errorf("%w: block %s: %w", ErrInvalidRow, geoid, err)
		}
		feat.Geometry = domcensus.Geometry{
			domcensus.FieldGEOID:    geoid,
			domcensus.FieldGeometry: g,
		}
	}
	return feat, nil
}

func encodeGeometry(f *geojson.Feature) (map[string]any, error) {
	g, err := geojson.Encode(f.Geometry)
	if err != nil {
		return nil, fmt.Errorf("encode geometry: %w", err)
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal geometry: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal geometry: %w", err)
	}
	return out, nil
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (l *Loader) loadCensus(ctx context.Context) ([]Stats, error) {
	csvFiles, err := listFiles(l.cfg.CensusDir, ".csv")
	if err != nil {
		return nil, err
	}
	jsonFiles, err := listFiles(l.cfg.CensusDir, "json")
	if err != nil {
		return nil, err
	}
	if err := l.census.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset census: %w", err)
	}

	filterStats, err := runPipeline(ctx, l.pipeline(DatasetCensusFilters), pipeline[domcensus.Filter]{
		produce: func(ctx context.Context, emit func(domcensus.Filter) error, _ func(error) error) error {
			for _, file := range csvFiles {
				idx, ok := MetaIndex(file)
				if !ok {
					continue
				}
				filters, err := l.readMetadata(file, idx)
				if err != nil {
					return err
				}
				for _, f := range filters {
					if err := emit(f); err != nil {
						return err
					}
				}
			}
			return nil
		},
		insert: l.census.InsertFilters,
	})
	if err != nil {
		return []Stats{filterStats}, err
	}

	regionStats, err := runPipeline(ctx, l.pipeline(DatasetCensus), pipeline[Feature]{
		produce: func(ctx context.Context, emit func(Feature) error, reject func(error) error) error {
			for _, file := range jsonFiles {
				feats, err := readFeatures(file)
				if err != nil {
					if rerr := reject(&RowError{File: file, Err: err}); rerr != nil {
						return rerr
					}
					continue
				}
				for _, f := range feats {
					if err := emit(f); err != nil {
						return err
					}
				}
			}
			return nil
		},
		insert: l.insertFeatures,
	})
	return []Stats{filterStats, regionStats}, err
}

func (l *Loader) readMetadata(path, metaIndex string) ([]domcensus.Filter, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	filters, err := ParseMetadata(latin1(f), metaIndex, l.cfg.Bounds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return filters, nil
}

func readFeatures(path string) ([]Feature, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseFeatures(f)
}

func (l *Loader) insertFeatures(ctx context.Context, feats []Feature) (int, error) {
	regions := make([]domcensus.Region, 0, len(feats))
	geoms := make([]domcensus.Geometry, 0, len(feats))
	for _, f := range feats {
		regions = append(regions, f.Region)
		if f.Geometry != nil {
			geoms = append(geoms, f.Geometry)
		}
	}

	n, err := l.census.InsertRegions(ctx, regions)
	if err != nil {
		return n, err
	}
	if _, err := l.census.InsertGeometries(ctx, geoms); err != nil {
		return n, err
	}
	return n, nil
}
