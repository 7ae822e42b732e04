package app

import (
	"context"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
	"hbnb_web/internal/pages"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

// View is everything one page load fetched. Zero values mean "leave the
// shipped markup alone".
type View struct {
	Kind    pages.Kind
	Session domain.Session
	PlaceID string

	Places       []domain.Place
	PlacesLoaded bool
	MaxPrice     *float64
	PriceChoice  string

	Place         *domain.Place
	DetailsError  string
	Reviews       []domain.Review
	ReviewsLoaded bool
	ReviewsError  string
}

type loader func(ctx context.Context, v *View, q url.Values) (redirect string)

// PageService runs the load-time workflow of each page kind.
type PageService struct {
	api   domain.APIClient
	table map[pages.Kind]loader
}

func NewPageService(api domain.APIClient) *PageService {
	s := &PageService{api: api}
	s.table = map[pages.Kind]loader{
		pages.List:      s.loadList,
		pages.Details:   s.loadDetails,
		pages.AddReview: s.loadAddReview,
	}
	return s
}

// Load fetches what kind needs. A non-empty redirect means the page must not
// be rendered at all.
func (s *PageService) Load(ctx context.Context, kind pages.Kind, sess domain.Session, q url.Values) (View, string) {
	v := View{Kind: kind, Session: sess, PlaceID: strings.TrimSpace(q.Get("id"))}
	fn, ok := s.table[kind]
	if !ok {
		return v, ""
	}
	return v, fn(ctx, &v, q)
}

func (s *PageService) loadList(ctx context.Context, v *View, q url.Values) string {
	v.PriceChoice, v.MaxPrice = ParsePriceFilter(q.Get("price"))
	places, err := s.api.ListPlaces(ctx, v.Session)
	if err != nil {
		// leave whatever the markup shipped with
		log.Error().Err(err).Str("user", session.Subject(v.Session.Token)).Msg("failed to fetch places")
		return ""
	}
	v.Places, v.PlacesLoaded = places, true
	return ""
}

// loadDetails asks for the place, then for its reviews, in that order. A failed
// place request does not stop the reviews request.
func (s *PageService) loadDetails(ctx context.Context, v *View, _ url.Values) string {
	if v.PlaceID == "" {
		v.DetailsError = render.MissingIDText
		return ""
	}
	id := v.PlaceID

	if p, err := s.api.GetPlace(ctx, v.Session, id); err != nil {
		log.Error().Err(err).Str("place_id", id).Msg("failed to fetch place details")
	} else {
		v.Place = &p
	}

	revs, err := s.api.ListReviews(ctx, id)
	if err != nil {
		v.ReviewsError = reviewsFailure(err)
		log.Error().Err(err).Str("place_id", id).Msg("failed to fetch reviews")
		return ""
	}
	v.Reviews, v.ReviewsLoaded = revs, true
	return ""
}

func (s *PageService) loadAddReview(_ context.Context, v *View, _ url.Values) string {
	if !v.Session.Authenticated() {
		return "index.html"
	}
	return ""
}

func reviewsFailure(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return render.ReviewsFailed
	}
	return render.ReviewsErrored
}

// ParsePriceFilter understands "all" (or nothing) and a finite non-negative
// number, returned in canonical form ("50.0" becomes "50") so it matches the
// filter's option values. Anything else behaves like "all".
func ParsePriceFilter(raw string) (string, *float64) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return "all", nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return "all", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), &f
}
