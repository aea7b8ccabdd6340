package chi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofeed/internal/domain"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
	logpkg "github.com/kailas-cloud/geofeed/internal/logger"
	censusuc "github.com/kailas-cloud/geofeed/internal/usecase/census"
	healthuc "github.com/kailas-cloud/geofeed/internal/usecase/health"
	placeuc "github.com/kailas-cloud/geofeed/internal/usecase/place"
	tweetuc "github.com/kailas-cloud/geofeed/internal/usecase/tweet"
)

// BasePath is the versioned mount point. Every route is also served at the root.
const BasePath = "/api/v1"

const (
	msgTweetUpdated = "Tweet updated"
	msgTweetDeleted = "Tweet deleted"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the geofeed HTTP API.
type Server struct {
	places        *placeuc.Service
	tweets        *tweetuc.Service
	census        *censusuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	places *placeuc.Service,
	tweets *tweetuc.Service,
	census *censusuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		places: places,
		tweets: tweets,
		census: census,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidID, http.StatusUnprocessableEntity),
		sentinelHandler(domain.ErrTweetNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		invalidParameterHandler,
	}
	return s
}

// Register mounts the API on r at the root and under BasePath.
func (s *Server) Register(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	s.routes(r)
	r.Route(BasePath, s.routes)
}

func (s *Server) routes(r chi.Router) {
	r.Get("/places", s.ListPlaces)
	r.Get("/places/types", s.ListPlaceTypes)
	r.Get("/places/names", s.ListPlaceNames)
	r.Get("/tweets", s.ListTweets)
	r.Get("/tweets/{id}", s.GetTweet)
	r.Patch("/tweets/{id}", s.PatchTweet)
	r.Delete("/tweets/{id}", s.DeleteTweet)
	r.Get("/census", s.GetCensus)
	r.Get("/census/geometries", s.ListCensusGeometries)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListPlaces handles GET /places.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	params, err := bindListPlacesParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	near, dist, err := params.Near()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	places, err := s.places.Search(r.Context(), domplace.Query{
		Names:    deref(params.Query),
		Types:    deref(params.Type),
		Near:     near,
		Distance: dist,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]placeResponse, len(places))
	for i := range places {
		items[i] = placeToResponse(&places[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// ListPlaceTypes handles GET /places/types.
func (s *Server) ListPlaceTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.places.Types(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if types == nil {
		types = []string{}
	}
	writeJSON(w, http.StatusOK, typesResponse{AllTypes: types})
}

// ListPlaceNames handles GET /places/names.
func (s *Server) ListPlaceNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.places.Names(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, namesResponse{AllNames: names})
}

// ListTweets handles GET /tweets.
func (s *Server) ListTweets(w http.ResponseWriter, r *http.Request) {
	params, err := bindListTweetsParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	near, dist, err := params.Near()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	q := domtweet.Query{
		Username: deref(params.Username),
		Text:     deref(params.Query),
		Near:     near,
		Distance: dist,
	}
	if params.Sentiment != nil {
		sent := domtweet.Sentiment(*params.Sentiment)
		q.Sentiment = &sent
	}

	tweets, err := s.tweets.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]tweetResponse, len(tweets))
	for i := range tweets {
		items[i] = tweetToResponse(&tweets[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// GetTweet handles GET /tweets/{id}.
func (s *Server) GetTweet(w http.ResponseWriter, r *http.Request) {
	t, err := s.tweets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tweetToResponse(&t))
}

// PatchTweet handles PATCH /tweets/{id}.
func (s *Server) PatchTweet(w http.ResponseWriter, r *http.Request) {
	params, err := bindPatchTweetParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := patch.New(params.Username, params.Tweet, params.Lat, params.Lon, params.Sentiment)
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err))
		return
	}

	if err := s.tweets.Update(r.Context(), chi.URLParam(r, "id"), p); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, msgTweetUpdated)
}

// DeleteTweet handles DELETE /tweets/{id}.
func (s *Server) DeleteTweet(w http.ResponseWriter, r *http.Request) {
	if err := s.tweets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeSuccess(w, msgTweetDeleted)
}

// GetCensus handles GET /census. Without age or position parameters the
// lookup is skipped and an empty object is returned.
func (s *Server) GetCensus(w http.ResponseWriter, r *http.Request) {
	params, err := bindCensusParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	near, dist, err := params.Near()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	age, ageActive, err := domcensus.NewAgeQuery(params.AgeMin, params.AgeMax, params.Gender, s.census.Bounds())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if !ageActive && near == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}

	q := domcensus.Query{Near: near, Distance: dist}
	if ageActive {
		q.Age = &age
	}

	res, err := s.census.Lookup(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, censusToResponse(&res))
}

// ListCensusGeometries handles GET /census/geometries.
func (s *Server) ListCensusGeometries(w http.ResponseWriter, r *http.Request) {
	params, err := bindCensusGeometriesParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	geoms, err := s.census.Geometries(r.Context(), params.GEOIDs())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]map[string]any, len(geoms))
	for i, g := range geoms {
		items[i] = plainDocument(g)
	}
	writeJSON(w, http.StatusOK, items)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error())
		return true
	}
}

func invalidParameterHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidParameter) {
		return false
	}
	msg := err.Error()
	var pe *domain.ParameterError
	if errors.As(err, &pe) {
		msg = pe.Error()
	}
	writeError(w, http.StatusBadRequest, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Debug("request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}
