package app_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/pages"
	"hbnb_web/internal/render"
)

// ---- fakes ----

type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	token    string
	loginErr error

	places    []domain.Place
	placesErr error
	place     domain.Place
	placeErr  error
	reviews   []domain.Review
	reviewErr error

	submitted []domain.NewReview
	submitErr error
	lastSess  domain.Session
}

func (f *fakeAPI) record(c string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login:" + email + ":" + password)
	return f.token, f.loginErr
}
func (f *fakeAPI) ListPlaces(ctx context.Context, s domain.Session) ([]domain.Place, error) {
	f.record("places")
	f.lastSess = s
	return f.places, f.placesErr
}
func (f *fakeAPI) GetPlace(ctx context.Context, s domain.Session, id string) (domain.Place, error) {
	f.record("place:" + id)
	return f.place, f.placeErr
}
func (f *fakeAPI) ListReviews(ctx context.Context, placeID string) ([]domain.Review, error) {
	f.record("reviews:" + placeID)
	return f.reviews, f.reviewErr
}
func (f *fakeAPI) SubmitReview(ctx context.Context, s domain.Session, r domain.NewReview) (domain.Review, error) {
	f.record("submit:" + r.PlaceID)
	f.mu.Lock()
	f.submitted = append(f.submitted, r)
	f.mu.Unlock()
	return domain.Review{ID: "new", Text: r.Text, Rating: r.Rating}, f.submitErr
}

func (f *fakeAPI) called() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.calls, ",")
}

var (
	anon   = domain.Session{}
	authed = domain.Session{Token: "tok"}
)

// ---- page loads ----

func TestLoad_ListPassesSessionAndFilter(t *testing.T) {
	api := &fakeAPI{places: []domain.Place{{ID: "a", Price: 10}, {ID: "b", Price: 90}}}
	s := app.NewPageService(api)

	v, redirect := s.Load(context.Background(), pages.List, authed, url.Values{"price": {"50"}})
	if redirect != "" {
		t.Fatalf("unexpected redirect %q", redirect)
	}
	if !v.PlacesLoaded || len(v.Places) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if api.lastSess.Token != "tok" {
		t.Fatalf("session not passed to the API client")
	}
	if v.MaxPrice == nil || *v.MaxPrice != 50 || v.PriceChoice != "50" {
		t.Fatalf("unexpected price filter: %v %q", v.MaxPrice, v.PriceChoice)
	}
}

func TestLoad_ListFailureLeavesMarkup(t *testing.T) {
	api := &fakeAPI{placesErr: errors.New("connection refused")}
	v, _ := app.NewPageService(api).Load(context.Background(), pages.List, anon, url.Values{})
	if v.PlacesLoaded {
		t.Fatalf("failed fetch must not mark places loaded")
	}

	reg, _ := pages.Load("")
	doc, _, _ := reg.Open("index.html")
	app.Paint(doc, v)
	if !strings.Contains(doc.Find("#places-list").Text(), "Places could not be loaded.") {
		t.Fatalf("shipped content should stay in place")
	}
}

func TestLoad_DetailsWithoutIDFetchesNothing(t *testing.T) {
	api := &fakeAPI{}
	v, _ := app.NewPageService(api).Load(context.Background(), pages.Details, authed, url.Values{})
	if v.DetailsError != render.MissingIDText {
		t.Fatalf("expected inline error, got %q", v.DetailsError)
	}
	if api.called() != "" {
		t.Fatalf("expected no API calls, got %s", api.called())
	}

	reg, _ := pages.Load("")
	doc, _, _ := reg.Open("place.html")
	app.Paint(doc, v)
	if got := doc.Find("#place-details").Text(); got != render.MissingIDText {
		t.Fatalf("details container = %q", got)
	}
}

func TestLoad_DetailsFetchesPlaceAndReviews(t *testing.T) {
	api := &fakeAPI{
		place:   domain.Place{ID: "p1", Title: "Loft", Price: 80},
		reviews: []domain.Review{{ID: "r1", Text: "ok", Rating: 3, UserName: "Bo"}},
	}
	v, _ := app.NewPageService(api).Load(context.Background(), pages.Details, anon, url.Values{"id": {"p1"}})
	if v.Place == nil || v.Place.Title != "Loft" || !v.ReviewsLoaded || len(v.Reviews) != 1 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if calls := api.called(); calls != "place:p1,reviews:p1" {
		t.Fatalf("place must be requested before reviews, got %s", calls)
	}
}

func TestLoad_DetailsPlaceFailureStillFetchesReviewsInOrder(t *testing.T) {
	for i := 0; i < 200; i++ {
		api := &fakeAPI{placeErr: errors.New("dial tcp: refused"), reviews: []domain.Review{}}
		v, _ := app.NewPageService(api).Load(context.Background(), pages.Details, anon, url.Values{"id": {"p1"}})
		if calls := api.called(); calls != "place:p1,reviews:p1" {
			t.Fatalf("load %d: got calls %s", i, calls)
		}
		if v.Place != nil || !v.ReviewsLoaded {
			t.Fatalf("load %d: unexpected view %+v", i, v)
		}
	}
}

func TestLoad_DetailsReviewFailureMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&domain.APIError{Status: 500, StatusText: "Internal Server Error"}, render.ReviewsFailed},
		{errors.New("dial tcp: refused"), render.ReviewsErrored},
	}
	for _, tc := range cases {
		api := &fakeAPI{place: domain.Place{ID: "p1"}, reviewErr: tc.err}
		v, _ := app.NewPageService(api).Load(context.Background(), pages.Details, anon, url.Values{"id": {"p1"}})
		if v.ReviewsError != tc.want || v.Place == nil {
			t.Fatalf("err %v: unexpected view %+v", tc.err, v)
		}
	}
}

func TestLoad_AddReviewRequiresToken(t *testing.T) {
	s := app.NewPageService(&fakeAPI{})
	if _, redirect := s.Load(context.Background(), pages.AddReview, anon, url.Values{"id": {"p1"}}); redirect != "index.html" {
		t.Fatalf("anonymous add-review should redirect home, got %q", redirect)
	}
	if _, redirect := s.Load(context.Background(), pages.AddReview, authed, url.Values{"id": {"p1"}}); redirect != "" {
		t.Fatalf("authenticated add-review should render, got %q", redirect)
	}
}

func TestParsePriceFilter(t *testing.T) {
	for raw, want := range map[string]string{
		"": "all", "all": "all", "abc": "all", "-1": "all", "100": "100",
		"NaN": "all", "nan": "all", "Inf": "all", "+Inf": "all", "1e400": "all",
		"50.0": "50", " 10 ": "10", "12.5": "12.5",
	} {
		got, max := app.ParsePriceFilter(raw)
		if got != want {
			t.Fatalf("%q: got %q want %q", raw, got, want)
		}
		if (want == "all") != (max == nil) {
			t.Fatalf("%q: unexpected max %v", raw, max)
		}
	}
}

// ---- commands ----

func TestLogin_SuccessSetsTokenAndGoesHome(t *testing.T) {
	api := &fakeAPI{token: "abc"}
	out := app.NewCommandService(api).Handle(context.Background(), anon,
		app.LoginRequested{Email: "  a@b.c ", Password: " pw "})
	if out.SetToken != "abc" || out.Redirect != "index.html" || out.Alert != "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if api.called() != "login:a@b.c:pw" {
		t.Fatalf("credentials not trimmed: %s", api.called())
	}
}

func TestLogin_401AlertsStatusTextAndSetsNothing(t *testing.T) {
	api := &fakeAPI{loginErr: &domain.APIError{Status: 401, StatusText: "UNAUTHORIZED", Message: "Invalid credentials"}}
	out := app.NewCommandService(api).Handle(context.Background(), anon, app.LoginRequested{Email: "a@b.c", Password: "x"})
	if out.SetToken != "" || out.Redirect != "" {
		t.Fatalf("failed login must not change state: %+v", out)
	}
	if out.Alert != "Login failed: UNAUTHORIZED" || out.Email != "a@b.c" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestLogout(t *testing.T) {
	out := app.NewCommandService(&fakeAPI{}).Handle(context.Background(), authed, app.LogoutRequested{})
	if !out.ClearToken || out.Redirect != "index.html" {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestReview_DetailsPageSuccessRefreshes(t *testing.T) {
	api := &fakeAPI{}
	out := app.NewCommandService(api).Handle(context.Background(), authed, app.ReviewSubmitted{
		Page: pages.Details, PlaceID: "p1", Text: "great", Rating: "5",
	})
	if !out.Refresh || out.Redirect != "" || out.Alert != app.ReviewSubmittedText || out.Text != "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(api.submitted) != 1 || api.submitted[0] != (domain.NewReview{Text: "great", Rating: 5, PlaceID: "p1"}) {
		t.Fatalf("unexpected submission %+v", api.submitted)
	}
}

func TestReview_AddReviewPageSuccessNavigates(t *testing.T) {
	out := app.NewCommandService(&fakeAPI{}).Handle(context.Background(), authed, app.ReviewSubmitted{
		Page: pages.AddReview, PlaceID: "p1", Text: "great", Rating: "4",
	})
	if out.Redirect != "place.html?id=p1" || out.Flash != app.ReviewSubmittedText || out.Refresh {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestReview_AddReviewPageAnonymousRedirectsWithoutSubmitting(t *testing.T) {
	api := &fakeAPI{}
	out := app.NewCommandService(api).Handle(context.Background(), anon, app.ReviewSubmitted{
		Page: pages.AddReview, PlaceID: "p1", Text: "x", Rating: "4",
	})
	if out.Redirect != "index.html" || api.called() != "" {
		t.Fatalf("unexpected outcome %+v calls=%s", out, api.called())
	}
}

func TestReview_DetailsPageAnonymousStillSubmits(t *testing.T) {
	api := &fakeAPI{submitErr: &domain.APIError{Status: 401, StatusText: "UNAUTHORIZED", Message: "Missing Authorization Header"}}
	out := app.NewCommandService(api).Handle(context.Background(), anon, app.ReviewSubmitted{
		Page: pages.Details, PlaceID: "p1", Text: "x", Rating: "4",
	})
	if api.called() != "submit:p1" {
		t.Fatalf("expected the API to be asked, got %s", api.called())
	}
	if out.Alert != "Failed to submit review: Missing Authorization Header" || out.Text != "x" || out.Rating != 4 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestReview_FailureFallsBackToStatusText(t *testing.T) {
	api := &fakeAPI{submitErr: &domain.APIError{Status: 502, StatusText: "Bad Gateway"}}
	out := app.NewCommandService(api).Handle(context.Background(), authed, app.ReviewSubmitted{
		Page: pages.Details, PlaceID: "p1", Text: "x", Rating: "2",
	})
	if out.Alert != "Failed to submit review: Bad Gateway" {
		t.Fatalf("unexpected alert %q", out.Alert)
	}
}

func TestReview_LocalValidation(t *testing.T) {
	api := &fakeAPI{}
	svc := app.NewCommandService(api)

	out := svc.Handle(context.Background(), authed, app.ReviewSubmitted{Page: pages.Details, Text: "x", Rating: "3"})
	if out.Alert != render.MissingIDText {
		t.Fatalf("unexpected alert %q", out.Alert)
	}
	out = svc.Handle(context.Background(), authed, app.ReviewSubmitted{Page: pages.Details, PlaceID: "p1", Text: "x", Rating: "five"})
	if !strings.HasPrefix(out.Alert, "Failed to submit review:") {
		t.Fatalf("unexpected alert %q", out.Alert)
	}
	if api.called() != "" {
		t.Fatalf("invalid input must not reach the API: %s", api.called())
	}
}

// ---- paint ----

func TestPaint_DetailsPage(t *testing.T) {
	reg, err := pages.Load("")
	if err != nil {
		t.Fatal(err)
	}
	doc, kind, err := reg.Open("place.html")
	if err != nil {
		t.Fatal(err)
	}
	app.Paint(doc, app.View{
		Kind:          kind,
		Session:       authed,
		PlaceID:       "p1",
		Place:         &domain.Place{ID: "p1", Title: "Loft", Price: 80},
		ReviewsLoaded: true,
	})

	if doc.Find(".place-info h1").Text() != "Loft" {
		t.Fatalf("place not painted")
	}
	if doc.Find("#reviews-list .no-reviews").Length() != 1 {
		t.Fatalf("placeholder not painted")
	}
	if doc.Find("#login-link").Text() != "Logout" {
		t.Fatalf("auth state not painted")
	}
	action, _ := doc.Find("#review-form").Attr("action")
	if action != "place.html?id=p1" {
		t.Fatalf("review form action = %q", action)
	}
	assertOnly(t, doc, "#add-review", "display: block")
}

func assertOnly(t *testing.T, doc *goquery.Document, sel, style string) {
	t.Helper()
	got, _ := doc.Find(sel).Attr("style")
	if got != style {
		t.Fatalf("%s style = %q, want %q", sel, got, style)
	}
}
