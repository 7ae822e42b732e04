package domain

import "context"

// Session is the per-request authentication context. It is passed explicitly
// into every API call; nothing reads the cookie behind the caller's back.
type Session struct {
	Token string
}

func (s Session) Authenticated() bool { return s.Token != "" }

type APIClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListPlaces(ctx context.Context, s Session) ([]Place, error)
	GetPlace(ctx context.Context, s Session, id string) (Place, error)
	ListReviews(ctx context.Context, placeID string) ([]Review, error)
	SubmitReview(ctx context.Context, s Session, r NewReview) (Review, error)
}

// FlashStore keeps one-shot user messages across a redirect.
type FlashStore interface {
	Put(ctx context.Context, msg string) (string, error)
	Take(ctx context.Context, id string) (string, bool, error)
}
