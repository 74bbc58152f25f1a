// Package auth provides admin authentication for FieldHQ.
// A single administrator logs in with email/password and receives a JWT
// access token; subsequent API requests carry the token as a Bearer header.
package auth

import "time"

// Admin is the administrator account stored in the database
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims represents JWT token claims for FieldHQ sessions
type Claims struct {
	AdminID string `json:"uid"`
	Email   string `json:"email"`
}
