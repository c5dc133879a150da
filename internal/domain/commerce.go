package domain

import "time"

// Commerce is a store or seller where an offer was found.
type Commerce struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
