package domain

type Owner struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Amenity struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Place is read-only on this side; every page load fetches it again.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Name        string    `json:"name,omitempty"` // older API drafts
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Owner       *Owner    `json:"owner,omitempty"`
	Amenities   []Amenity `json:"amenities,omitempty"`
}

// DisplayTitle prefers title, falls back to name.
func (p Place) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}
