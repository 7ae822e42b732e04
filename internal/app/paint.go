package app

import (
	"github.com/PuerkitoBio/goquery"

	"hbnb_web/internal/pages"
	"hbnb_web/internal/render"
)

// Paint applies a loaded View to a freshly opened page document.
func Paint(doc *goquery.Document, v View) {
	render.AuthState(doc, v.Session.Authenticated())

	switch v.Kind {
	case pages.List:
		render.PriceFilter(doc, v.PriceChoice)
		if v.PlacesLoaded {
			render.PlaceList(doc, v.Places, v.MaxPrice)
		}
	case pages.Details:
		if v.DetailsError != "" {
			render.InlineError(doc, "place-details", v.DetailsError)
			return
		}
		if v.Place != nil {
			render.PlaceDetails(doc, *v.Place)
		}
		switch {
		case v.ReviewsLoaded:
			render.Reviews(doc, v.Reviews)
		case v.ReviewsError != "":
			render.InlineError(doc, "reviews-list", v.ReviewsError)
		}
		render.ReviewForm(doc, "place.html", v.PlaceID)
	case pages.AddReview:
		render.ReviewForm(doc, "add_review.html", v.PlaceID)
	}
}
