package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geofeed/internal/domain/geo"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
)

const placeFields = 5

// ParsePlace parses a "place,type,checkins,lat,lon" row.
// Trailing empty columns are dropped and the name may itself contain commas.
func ParsePlace(line string) (domplace.Place, error) {
	parts := rsplit(strings.TrimRight(line, ","), ",", placeFields)
	if len(parts) != placeFields {
		return domplace.Place{}, invalidRow("expected %d fields, got %d", placeFields, len(parts))
	}

	checkins, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return domplace.Place{}, invalidRow("checkins %q: not an integer", parts[2])
	}
	loc, err := parsePoint(parts[3], parts[4])
	if err != nil {
		return domplace.Place{}, err
	}

	p, err := domplace.New(parts[0], parts[1], checkins, loc)
	if err != nil {
		return domplace.Place{}, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return p, nil
}

func parsePoint(rawLat, rawLon string) (geo.Point, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return geo.Point{}, invalidRow("latitude %q: not a number", rawLat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return geo.Point{}, invalidRow("longitude %q: not a number", rawLon)
	}
	p, err := geo.NewPoint(lat, lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %w", ErrInvalidRow, err)
	}
	return p, nil
}

func (l *Loader) loadPlaces(ctx context.Context) (Stats, error) {
	files, err := listFiles(l.cfg.PlacesDir, ".csv")
	if err != nil {
		return Stats{}, err
	}
	if err := l.places.Reset(ctx); err != nil {
		return Stats{}, fmt.Errorf("reset places: %w", err)
	}

	return runPipeline(ctx, l.pipeline(DatasetPlaces), pipeline[domplace.Place]{
		produce: func(ctx context.Context, emit func(domplace.Place) error, reject func(error) error) error {
			return l.scanRows(ctx, files, reject, func(line string) error {
				p, err := ParsePlace(line)
				if err != nil {
					return err
				}
				return emit(p)
			})
		},
		insert: l.places.InsertBatch,
	})
}
