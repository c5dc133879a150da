package domain

import "time"

// Collaboration records a user corroborating an existing offer: "I also
// found this same price". It is only ever created for an offer published
// the same day by a different author.
type Collaboration struct {
	ID        string    `json:"id"`
	OfferID   string    `json:"offer_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
