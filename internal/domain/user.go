package domain

import "time"

// User is an authenticated marketplace member. Users author offers and
// collaborate on other users' offers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
