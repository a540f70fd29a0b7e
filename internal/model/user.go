// Package model defines the data structures shared across the application.
package model

import "time"

// User is a registered account.
//
// PasswordHash carries the bcrypt output and is never serialized — the
// `json:"-"` tag keeps it out of every API response. Users are immutable
// after registration; there is no profile editing or password reset flow.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"` // unique, lowercased at registration
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
