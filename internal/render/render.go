// Package render paints API data into page markup. Every function locates its
// container by element id and replaces that container's content wholesale; no
// diffing is attempted.
package render

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hbnb_web/internal/domain"
)

const (
	NoReviewsText  = "No reviews yet. Be the first to review this place!"
	MissingIDText  = "Error: No place ID provided in URL."
	ReviewsFailed  = "Unable to load reviews."
	ReviewsErrored = "Error loading reviews."
)

const (
	starFull  = "★"
	starEmpty = "☆"
)

// StarRating renders five glyphs, filled first. Ratings outside 0..5 are clamped.
func StarRating(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat(starFull, rating) + strings.Repeat(starEmpty, 5-rating)
}

// FormatPrice prints 80 as "80" and 79.5 as "79.5".
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// PlaceList rebuilds #places-list. Cards priced above maxPrice stay in the list
// but are hidden; a nil maxPrice shows everything.
func PlaceList(doc *goquery.Document, places []domain.Place, maxPrice *float64) {
	list := doc.Find("#places-list")
	var b strings.Builder
	for _, p := range places {
		b.WriteString(exec(placeCardTmpl, struct {
			ID, Title, Price string
			Hidden           bool
		}{
			ID:     p.ID,
			Title:  p.DisplayTitle(),
			Price:  FormatPrice(p.Price),
			Hidden: maxPrice != nil && p.Price > *maxPrice,
		}))
	}
	list.SetHtml(b.String())
}

// HostName is "first last" of the owner, or "Unknown".
func HostName(o *domain.Owner) string {
	if o == nil {
		return "Unknown"
	}
	if n := strings.TrimSpace(o.FirstName + " " + o.LastName); n != "" {
		return n
	}
	return "Unknown"
}

// AmenityList joins amenity names with ", ", or returns "None".
func AmenityList(as []domain.Amenity) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func PlaceDetails(doc *goquery.Document, p domain.Place) {
	doc.Find("#place-details").SetHtml(exec(placeInfoTmpl, struct {
		Title, Host, Price, Description, Amenities string
	}{
		Title:       p.DisplayTitle(),
		Host:        HostName(p.Owner),
		Price:       FormatPrice(p.Price),
		Description: p.Description,
		Amenities:   AmenityList(p.Amenities),
	}))
}

func Reviews(doc *goquery.Document, reviews []domain.Review) {
	list := doc.Find("#reviews-list")
	if len(reviews) == 0 {
		list.SetHtml(message("no-reviews", NoReviewsText))
		return
	}
	var b strings.Builder
	for _, r := range reviews {
		author := r.UserName
		if author == "" {
			author = "Anonymous"
		}
		b.WriteString(exec(reviewCardTmpl, struct{ Author, Text, Stars string }{
			Author: author,
			Text:   r.Text,
			Stars:  StarRating(r.Rating),
		}))
	}
	list.SetHtml(b.String())
}

// InlineError replaces the content of #id with a single message paragraph.
func InlineError(doc *goquery.Document, id, msg string) {
	doc.Find("#" + id).SetHtml(message("", msg))
}

// AuthState toggles the login link and the add-review section.
func AuthState(doc *goquery.Document, authenticated bool) {
	link := doc.Find("#login-link")
	link.SetAttr("style", "display: block")
	if authenticated {
		link.SetText("Logout")
		link.SetAttr("href", "logout")
	} else {
		link.SetText("Login")
		link.SetAttr("href", "login.html")
	}

	display := "display: none"
	if authenticated {
		display = "display: block"
	}
	doc.Find("#add-review").SetAttr("style", display)
}

// Alert shows msg in the page's alert region, creating one if the markup lacks it.
func Alert(doc *goquery.Document, msg string) {
	if msg == "" {
		return
	}
	box := doc.Find("#alert")
	if box.Length() == 0 {
		doc.Find("body").PrependHtml(`<div id="alert" role="alert"></div>`)
		box = doc.Find("#alert")
	}
	box.RemoveAttr("hidden")
	box.SetText(msg)
}

// PriceFilter marks the option matching selected ("all" when empty).
func PriceFilter(doc *goquery.Document, selected string) {
	if selected == "" {
		selected = "all"
	}
	doc.Find("#price-filter option").Each(func(_ int, o *goquery.Selection) {
		if v, _ := o.Attr("value"); v == selected {
			o.SetAttr("selected", "selected")
		} else {
			o.RemoveAttr("selected")
		}
	})
}

// ReviewForm points the review form at the page's place.
func ReviewForm(doc *goquery.Document, page, placeID string) {
	form := doc.Find("#review-form")
	form.SetAttr("action", page+"?id="+url.QueryEscape(placeID))
	form.Find(`input[name="id"]`).SetAttr("value", placeID)
}

// FillReviewForm puts back what the user typed after a failed submission.
// Either text element id is accepted, matching both page layouts.
func FillReviewForm(doc *goquery.Document, text string, rating int) {
	doc.Find("#review, #review-text").First().SetText(text)
	r := strconv.Itoa(rating)
	doc.Find("#rating option").Each(func(_ int, o *goquery.Selection) {
		if v, _ := o.Attr("value"); v == r {
			o.SetAttr("selected", "selected")
		} else {
			o.RemoveAttr("selected")
		}
	})
}

// FillLoginForm keeps the email after a failed login; the password is never echoed.
func FillLoginForm(doc *goquery.Document, email string) {
	doc.Find("#email").SetAttr("value", email)
}

// HTML serializes the whole document, doctype included.
func HTML(doc *goquery.Document) (string, error) {
	return doc.Html()
}
