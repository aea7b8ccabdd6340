package chi

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/geofeed/internal/domain"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	"github.com/kailas-cloud/geofeed/internal/domain/geo"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

const tweetID = "5f1d7e9b8c1a2b3c4d5e6f70"

func decodeStatus(t *testing.T, body string) statusResponse {
	t.Helper()
	var resp statusResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode status body %q: %v", body, err)
	}
	return resp
}

func seedTweet(h *harness) {
	loc, _ := geo.NewPoint(35.08063, -106.37636)
	at := time.Date(2019, 6, 1, 12, 30, 5, 0, time.UTC)
	h.tweets.tweets[tweetID] = domtweet.Reconstruct(tweetID, "abq", "green chile", at, loc, domtweet.Positive)
}

func TestListPlaces(t *testing.T) {
	h := newHarness(t)
	loc, _ := geo.NewPoint(35.05, -106.58)
	p, _ := domplace.New("Frontier", "Restaurant", 12, loc)
	h.places.places = []domplace.Place{p}

	for _, path := range []string{"/places", BasePath + "/places"} {
		rr := h.do(http.MethodGet, path+"?query=front,range&lat=35.05&lon=-106.58")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, body %s", path, rr.Code, rr.Body)
		}

		var items []placeResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(items) != 1 || items[0].Place != "Frontier" || items[0].Location.Type != "Point" {
			t.Errorf("items = %+v", items)
		}
		if items[0].Location.Coordinates != [2]float64{-106.58, 35.05} {
			t.Errorf("coordinates = %v, want lon first", items[0].Location.Coordinates)
		}

		groups := h.places.lastExp.Groups()
		if len(groups) != 2 || len(groups[0].Conditions()) != 2 {
			t.Fatalf("groups = %+v", groups)
		}
		if d := groups[1].Conditions()[0].Near().MaxDistance(); d != filter.DefaultMaxDistance {
			t.Errorf("distance = %d, want default", d)
		}
	}
}

func TestListPlaces_EmptyIsArray(t *testing.T) {
	rr := newHarness(t).do(http.MethodGet, "/places")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("status = %d, body = %q", rr.Code, rr.Body)
	}
}

func TestListPlaces_PartialPairIgnored(t *testing.T) {
	h := newHarness(t)
	rr := h.do(http.MethodGet, "/places?lat=35.05&dist=10")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !h.places.lastExp.IsEmpty() {
		t.Error("expected no filter for a partial coordinate pair")
	}
}

func TestListPlaces_BadNumbers(t *testing.T) {
	tests := []string{
		"/places?lat=abc&lon=1",
		"/places?lat=1&lon=1&dist=far",
		"/places?lat=95&lon=1",
		"/places?lat=1&lon=1&dist=-5",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rr := newHarness(t).do(http.MethodGet, target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			resp := decodeStatus(t, rr.Body.String())
			if resp.Code != http.StatusBadRequest || resp.Type != "error" || resp.Message == "" {
				t.Errorf("body = %+v", resp)
			}
		})
	}
}

func TestListPlaceTypesAndNames(t *testing.T) {
	h := newHarness(t)
	h.places.types = []string{"Bar", "Cafe"}

	rr := h.do(http.MethodGet, "/places/types")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var types typesResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &types)
	if len(types.AllTypes) != 2 || types.AllTypes[0] != "Bar" {
		t.Errorf("types = %+v", types)
	}

	rr = h.do(http.MethodGet, "/places/names")
	if got := strings.TrimSpace(rr.Body.String()); got != `{"all_names":[]}` {
		t.Errorf("names body = %s", got)
	}
}

func TestListTweets_Sentiment(t *testing.T) {
	h := newHarness(t)
	seedTweet(h)

	rr := h.do(http.MethodGet, "/tweets?username=abq&sentiment=-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	groups := h.tweets.lastExp.Groups()
	if len(groups) != 2 || groups[1].Conditions()[0].Value() != -1 {
		t.Errorf("groups = %+v", groups)
	}

	var items []tweetResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &items)
	if len(items) != 1 || items[0].Datetime != "2019-06-01T12:30:05" {
		t.Errorf("items = %+v", items)
	}
}

func TestListTweets_BadSentiment(t *testing.T) {
	rr := newHarness(t).do(http.MethodGet, "/tweets?sentiment=positive")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestGetTweet(t *testing.T) {
	h := newHarness(t)
	seedTweet(h)

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantMsg    string
	}{
		{"found", tweetID, http.StatusOK, ""},
		{"missing", "000000000000000000000000", http.StatusNotFound, "Tweet not found"},
		{"malformed", "not-an-id", http.StatusUnprocessableEntity, domain.ErrInvalidID.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := h.do(http.MethodGet, "/tweets/"+tt.id)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantMsg == "" {
				var resp tweetResponse
				_ = json.Unmarshal(rr.Body.Bytes(), &resp)
				if resp.ID != tweetID || resp.Username != "abq" || resp.Sentiment != 1 {
					t.Errorf("tweet = %+v", resp)
				}
				return
			}
			resp := decodeStatus(t, rr.Body.String())
			if resp.Message != tt.wantMsg || resp.Code != tt.wantStatus {
				t.Errorf("body = %+v", resp)
			}
		})
	}
}

func TestPatchTweet(t *testing.T) {
	h := newHarness(t)
	seedTweet(h)

	rr := h.do(http.MethodPatch, BasePath+"/tweets/"+tweetID+"?sentiment=1&lat=35.1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	resp := decodeStatus(t, rr.Body.String())
	if resp.Type != "success" || resp.Code != http.StatusOK {
		t.Errorf("body = %+v", resp)
	}

	p := h.tweets.lastPatch
	if p == nil || p.Sentiment() == nil || *p.Sentiment() != domtweet.Positive {
		t.Fatalf("patch = %+v", p)
	}
	if p.Username() != nil || p.Text() != nil || p.Lon() != nil {
		t.Error("unsupplied fields must stay nil")
	}
	if p.Lat() == nil || *p.Lat() != 35.1 {
		t.Errorf("lat = %v", p.Lat())
	}
}

func TestPatchTweet_Errors(t *testing.T) {
	h := newHarness(t)
	seedTweet(h)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{"bad sentiment", "/tweets/" + tweetID + "?sentiment=5", http.StatusBadRequest},
		{"bad lat", "/tweets/" + tweetID + "?lat=north", http.StatusBadRequest},
		{"missing", "/tweets/000000000000000000000000?username=x", http.StatusNotFound},
		{"malformed", "/tweets/xyz?username=x", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := h.do(http.MethodPatch, tt.target)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body)
			}
		})
	}
}

func TestDeleteTweet_ThenGet404(t *testing.T) {
	h := newHarness(t)
	seedTweet(h)

	rr := h.do(http.MethodDelete, "/tweets/"+tweetID)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	if resp := decodeStatus(t, rr.Body.String()); resp.Type != "success" {
		t.Errorf("body = %+v", resp)
	}

	rr = h.do(http.MethodGet, "/tweets/"+tweetID)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rr.Code)
	}
}

func TestGetCensus_NoParams(t *testing.T) {
	h := newHarness(t)
	rr := h.do(http.MethodGet, "/census")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "{}" {
		t.Errorf("status = %d, body = %q", rr.Code, rr.Body)
	}
	if h.census.calls != 0 {
		t.Errorf("store calls = %d, want 0", h.census.calls)
	}
}

func TestGetCensus_AgeLookup(t *testing.T) {
	h := newHarness(t)
	f, _ := domcensus.NewAgeFilter("HD01_VD28", domcensus.SubtypeEstimate, domcensus.GenderFemale, 18, 19, "ACS", "d")
	h.census.filters = []domcensus.Filter{f}
	h.census.regions = []domcensus.Region{{"GEOID": "350010001", "ACS_with_ann_HD01_VD28": 7}}

	rr := h.do(http.MethodGet, "/census?agemin=18&agemax=56&gender=female")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}

	var resp censusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Categories) != 1 || resp.Categories[0].Gender != "Female" {
		t.Errorf("categories = %+v", resp.Categories)
	}
	if len(resp.Filter) != 1 || resp.Filter[0] != "ACS_with_ann_HD01_VD28" {
		t.Errorf("filter = %v", resp.Filter)
	}
	if len(resp.Regions) != 1 {
		t.Errorf("regions = %v", resp.Regions)
	}

	groups := h.census.filterExp.Groups()
	if p := groups[3].Conditions()[0].Pattern(); p != "female" {
		t.Errorf("gender pattern = %q", p)
	}
	if r := groups[1].Conditions()[0].Range(); *r.GTE() != 18 {
		t.Errorf("min = %v", *r.GTE())
	}
	if r := groups[2].Conditions()[0].Range(); *r.LTE() != 56 {
		t.Errorf("max = %v", *r.LTE())
	}

	// "male" is matched unanchored, so Female filters are selected too.
	rr = h.do(http.MethodGet, "/census?gender=MALE")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	p := h.census.filterExp.Groups()[3].Conditions()[0].Pattern()
	if p != "male" {
		t.Errorf("gender pattern = %q, want male", p)
	}
	if !regexp.MustCompile("(?i)" + p).MatchString(domcensus.GenderFemale) {
		t.Errorf("pattern %q does not match %q", p, domcensus.GenderFemale)
	}
}

func TestGetCensus_ZeroAgeIsActive(t *testing.T) {
	h := newHarness(t)
	rr := h.do(http.MethodGet, "/census?agemin=0")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if h.census.calls != 1 {
		t.Errorf("store calls = %d, want 1", h.census.calls)
	}
	if strings.TrimSpace(rr.Body.String()) == "{}" {
		t.Error("explicit agemin=0 must run the lookup")
	}
}

func TestGetCensus_BadGender(t *testing.T) {
	rr := newHarness(t).do(http.MethodGet, "/census?gender=robot")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if resp := decodeStatus(t, rr.Body.String()); !strings.Contains(resp.Message, "gender") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestListCensusGeometries(t *testing.T) {
	h := newHarness(t)
	h.census.geometries = []domcensus.Geometry{{"GEOID": "1", "geometry": map[string]any{"type": "Polygon"}}}

	rr := h.do(http.MethodGet, "/census/geometries?geoid=1,%202,")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	conds := h.census.geomExp.Groups()[0].Conditions()
	if len(conds) != 2 || conds[1].Value() != "2" {
		t.Errorf("conditions = %+v", conds)
	}

	var items []map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &items)
	if len(items) != 1 || items[0]["GEOID"] != "1" {
		t.Errorf("items = %v", items)
	}
}

func TestHealthCheck(t *testing.T) {
	h := newHarness(t)
	if rr := h.do(http.MethodGet, "/health"); rr.Code != http.StatusOK {
		t.Errorf("healthy status = %d", rr.Code)
	}

	h.pinger.err = errTest
	rr := h.do(http.MethodGet, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded status = %d", rr.Code)
	}
	var resp healthResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Status != "degraded" || resp.Checks["database"] != "error" {
		t.Errorf("body = %+v", resp)
	}
}

func TestNotFoundRoute(t *testing.T) {
	rr := newHarness(t).do(http.MethodGet, "/facebook")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if resp := decodeStatus(t, rr.Body.String()); resp.Type != "error" {
		t.Errorf("body = %+v", resp)
	}
}
