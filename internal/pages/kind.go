package pages

import "github.com/PuerkitoBio/goquery"

// Kind identifies which workflow a page runs.
type Kind int

const (
	Unknown Kind = iota
	Login
	List
	Details
	AddReview
)

func (k Kind) String() string {
	switch k {
	case Login:
		return "login"
	case List:
		return "list"
	case Details:
		return "details"
	case AddReview:
		return "add_review"
	}
	return "unknown"
}

// DetectKind classifies page markup by the element ids it carries. The order
// matters: the add-review page also has a review form, and the details page
// embeds one too, so the dedicated "review" textarea is what tells them apart.
func DetectKind(doc *goquery.Document) Kind {
	has := func(sel string) bool { return doc.Find(sel).Length() > 0 }
	switch {
	case has("#login-form"):
		return Login
	case has("#review-form") && has("textarea#review"):
		return AddReview
	case has("#place-details"):
		return Details
	case has("#places-list"):
		return List
	}
	return Unknown
}
