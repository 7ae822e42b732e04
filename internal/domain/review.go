package domain

type Review struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"` // 1..5 on the API side
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	PlaceID  string `json:"place_id,omitempty"`
}

// NewReview is the body of POST /api/v1/reviews/.
type NewReview struct {
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	PlaceID string `json:"place_id"`
}
