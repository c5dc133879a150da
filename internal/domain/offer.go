package domain

import "time"

// Offer is a priced listing of a product at a commerce for a given day.
// Offers are immutable after creation: a new price means a new offer on a
// new day. Only the author may delete one.
type Offer struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	CommerceID  string    `json:"commerce_id"`
	Price       Price     `json:"price"`
	ImageURL    string    `json:"image_url"`
	AuthorID    string    `json:"author_id"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// RankedOffer is an offer annotated for the daily best-offers feed.
type RankedOffer struct {
	Offer
	Collaborations int `json:"collaborations"`
}
