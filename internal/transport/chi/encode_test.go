package chi

import (
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("test failure")

func TestPlainValue(t *testing.T) {
	at := time.Date(2019, 6, 1, 7, 8, 9, 500, time.UTC)
	doc := map[string]any{
		"GEOID": "1",
		"at":    at,
		"nested": map[string]any{
			"list": []any{at, int32(3)},
		},
	}

	got := plainDocument(doc)
	if got["at"] != "2019-06-01T07:08:09" {
		t.Errorf("at = %v", got["at"])
	}
	list := got["nested"].(map[string]any)["list"].([]any)
	if list[0] != "2019-06-01T07:08:09" || list[1] != int32(3) {
		t.Errorf("list = %v", list)
	}
	if _, ok := doc["at"].(time.Time); !ok {
		t.Error("input document must not be modified")
	}
}

func TestFormatTime_UTC(t *testing.T) {
	loc := time.FixedZone("MST", -7*3600)
	at := time.Date(2019, 6, 1, 5, 0, 0, 0, loc)
	if got := formatTime(at); got != "2019-06-01T12:00:00" {
		t.Errorf("formatTime = %q", got)
	}
}
