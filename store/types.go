// Package store provides SQLite persistence for agents and distributed
// contact records.
package store

import "time"

// Agent is a personnel record that uploaded contacts are distributed to.
type Agent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	// PasswordHash is never serialized in API responses
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Record is a contact row imported from an uploaded file and assigned
// to an agent.
type Record struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	Phone      string    `json:"phone"`
	Notes      string    `json:"notes"`
	AssignedTo string    `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
}
