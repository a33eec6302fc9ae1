// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account in the collection.
//
// Passwords are never stored raw. PasswordHash holds the bcrypt output of the
// password the user registered with; verification goes through
// auth.PasswordService which compares in constant time.
//
// PasswordHash carries `json:"-"` so the hash can never leak through a
// serialized User — logging or exporting a user is safe by construction.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"` // unique, case-sensitive
	Email        string    `json:"email"     db:"email"`    // unique, case-sensitive
	PasswordHash string    `json:"-"         db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
